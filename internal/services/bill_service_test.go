package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestNextDueDate(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name     string
		due      time.Time
		interval models.BillInterval
		want     time.Time
		rolls    bool
	}{
		{"weekly", date(2024, 6, 10), models.BillIntervalWeekly, date(2024, 6, 17), true},
		{"monthly", date(2024, 12, 15), models.BillIntervalMonthly, date(2025, 1, 15), true},
		{"quarterly", date(2024, 11, 5), models.BillIntervalQuarterly, date(2025, 2, 5), true},
		{"yearly", date(2024, 3, 1), models.BillIntervalYearly, date(2025, 3, 1), true},
		{"monthly_clamps_to_leap_feb", date(2024, 1, 31), models.BillIntervalMonthly, date(2024, 2, 29), true},
		{"monthly_clamps_to_short_feb", date(2025, 1, 31), models.BillIntervalMonthly, date(2025, 2, 28), true},
		{"quarterly_clamps", date(2024, 1, 31), models.BillIntervalQuarterly, date(2024, 4, 30), true},
		{"yearly_clamps_leap_day", date(2024, 2, 29), models.BillIntervalYearly, date(2025, 2, 28), true},
		{"one_time", date(2024, 6, 10), models.BillIntervalOneTime, time.Time{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, rolls := NextDueDate(tc.due, tc.interval)
			if rolls != tc.rolls {
				t.Fatalf("expected rolls=%v, got %v", tc.rolls, rolls)
			}
			if rolls && !got.Equal(tc.want) {
				t.Errorf("expected next due %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCreateBill(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db)
		user := testutil.CreateTestUser(t, db)

		bill, err := svc.CreateBill(user.ID, "Electricity", 4500,
			models.BillCategoryElectricity, time.Now().AddDate(0, 0, 10),
			models.BillIntervalMonthly, 3)
		testutil.AssertNoError(t, err)

		if bill.ID == 0 {
			t.Fatal("expected non-zero bill ID")
		}
		if bill.IsPaid {
			t.Error("expected new bill unpaid")
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBill(user.ID, "Nothing", 0,
			models.BillCategoryOther, time.Now(), models.BillIntervalOneTime, 0)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("negative_reminder", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBill(user.ID, "Internet", 6000,
			models.BillCategoryInternet, time.Now(), models.BillIntervalMonthly, -1)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestMarkPaid(t *testing.T) {
	t.Run("recurring_spawns_next_instance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db)
		user := testutil.CreateTestUser(t, db)
		bill := testutil.CreateTestBill(t, db, user.ID) // monthly

		result, err := svc.MarkPaid(user.ID, bill.ID)
		testutil.AssertNoError(t, err)

		if !result.Paid.IsPaid || result.Paid.PaymentDate == nil {
			t.Error("expected settled bill marked paid with a payment date")
		}
		if result.Next == nil {
			t.Fatal("expected a next instance for a monthly bill")
		}
		if result.Next.IsPaid {
			t.Error("expected next instance unpaid")
		}
		if result.Next.BillName != bill.BillName || result.Next.Amount != bill.Amount {
			t.Error("expected next instance to carry the bill's name and amount")
		}
		wantDue := addMonthsClamp(bill.DueDate, 1)
		if !result.Next.DueDate.Equal(wantDue) {
			t.Errorf("expected next due %v, got %v", wantDue, result.Next.DueDate)
		}

		// History keeps both instances.
		var count int64
		if err := db.Model(&models.BillReminder{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count bills: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 bill rows, got %d", count)
		}
	})

	t.Run("one_time_does_not_spawn", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db)
		user := testutil.CreateTestUser(t, db)
		bill := testutil.CreateTestBill(t, db, user.ID)
		if err := db.Model(bill).Update("recurring_interval", models.BillIntervalOneTime).Error; err != nil {
			t.Fatalf("failed to set interval: %v", err)
		}

		result, err := svc.MarkPaid(user.ID, bill.ID)
		testutil.AssertNoError(t, err)
		if result.Next != nil {
			t.Error("expected no next instance for a one_time bill")
		}
	})

	t.Run("already_paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db)
		user := testutil.CreateTestUser(t, db)
		bill := testutil.CreateTestBill(t, db, user.ID)

		_, err := svc.MarkPaid(user.ID, bill.ID)
		testutil.AssertNoError(t, err)
		_, err = svc.MarkPaid(user.ID, bill.ID)
		testutil.AssertAppError(t, err, "BILL_ALREADY_PAID")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.MarkPaid(user.ID, 9999)
		testutil.AssertAppError(t, err, "BILL_NOT_FOUND")
	})

	t.Run("other_users_bill", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		bill := testutil.CreateTestBill(t, db, other.ID)

		_, err := svc.MarkPaid(user.ID, bill.ID)
		testutil.AssertAppError(t, err, "BILL_NOT_FOUND")
	})
}

func TestGetUpcomingBills(t *testing.T) {
	t.Run("reminder_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db)
		user := testutil.CreateTestUser(t, db)
		today := dateOnly(time.Now())

		// Due in 2 days, 3-day window: inside.
		inside := testutil.CreateTestBill(t, db, user.ID)
		if err := db.Model(inside).Update("due_date", today.AddDate(0, 0, 2)).Error; err != nil {
			t.Fatalf("failed to set due date: %v", err)
		}
		// Due in 7 days, 3-day window: outside.
		outside := testutil.CreateTestBill(t, db, user.ID)
		_ = outside
		// Overdue: inside.
		overdue := testutil.CreateTestBill(t, db, user.ID)
		if err := db.Model(overdue).Update("due_date", today.AddDate(0, 0, -2)).Error; err != nil {
			t.Fatalf("failed to set due date: %v", err)
		}
		// Due today but paid: excluded.
		paid := testutil.CreateTestBill(t, db, user.ID)
		if err := db.Model(paid).Updates(map[string]interface{}{
			"due_date": today,
			"is_paid":  true,
		}).Error; err != nil {
			t.Fatalf("failed to settle bill: %v", err)
		}

		upcoming, err := svc.GetUpcomingBills(user.ID, today)
		testutil.AssertNoError(t, err)

		if len(upcoming) != 2 {
			t.Fatalf("expected 2 upcoming bills, got %d", len(upcoming))
		}
		for _, bill := range upcoming {
			if bill.ID == outside.ID || bill.ID == paid.ID {
				t.Errorf("bill %d should not be in the reminder window", bill.ID)
			}
		}
	})
}

func TestGetUserBills(t *testing.T) {
	t.Run("unpaid_filter_and_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db)
		user := testutil.CreateTestUser(t, db)
		today := dateOnly(time.Now())

		later := testutil.CreateTestBill(t, db, user.ID)
		if err := db.Model(later).Update("due_date", today.AddDate(0, 0, 20)).Error; err != nil {
			t.Fatalf("failed to set due date: %v", err)
		}
		sooner := testutil.CreateTestBill(t, db, user.ID)
		if err := db.Model(sooner).Update("due_date", today.AddDate(0, 0, 1)).Error; err != nil {
			t.Fatalf("failed to set due date: %v", err)
		}
		settled := testutil.CreateTestBill(t, db, user.ID)
		if err := db.Model(settled).Update("is_paid", true).Error; err != nil {
			t.Fatalf("failed to settle bill: %v", err)
		}

		page, err := svc.GetUserBills(user.ID, pagination.PageRequest{}, true)
		testutil.AssertNoError(t, err)

		if page.TotalItems != 2 {
			t.Fatalf("expected 2 unpaid bills, got %d", page.TotalItems)
		}
		if page.Data[0].ID != sooner.ID {
			t.Errorf("expected bills ordered by due date, got %d first", page.Data[0].ID)
		}

		all, err := svc.GetUserBills(user.ID, pagination.PageRequest{}, false)
		testutil.AssertNoError(t, err)
		if all.TotalItems != 3 {
			t.Errorf("expected 3 bills without the filter, got %d", all.TotalItems)
		}
	})
}
