package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

func TestStorage_Integration(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		f := newTestDataFactory(t, storage)
		u := f.user(func(u *models.User) { u.Email = "Alice@Example.com" })

		got, err := storage.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.False(t, got.IsModerator)

		_, err = storage.CreateUser(ctx, models.User{Email: "Alice@Example.com", PasswordHash: "x", IsActive: true})
		assert.ErrorIs(t, err, ErrConflict)
		for _, variant := range []string{"alice@example.com", "ALICE@EXAMPLE.COM"} {
			_, err = storage.CreateUser(ctx, models.User{Email: variant, PasswordHash: "x", IsActive: true})
			assert.ErrorIs(t, err, ErrConflict, variant)
		}

		require.NoError(t, storage.AddUserToGroup(ctx, u.ID, models.ModeratorsGroup))
		require.NoError(t, storage.AddUserToGroup(ctx, u.ID, models.ModeratorsGroup))
		got, err = storage.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, got.IsModerator)

		assert.ErrorIs(t, storage.AddUserToGroup(ctx, u.ID, "wizards"), ErrNotFound)

		city := "Kazan"
		updated, err := storage.UpdateProfile(ctx, u.ID, models.ProfileUpdate{City: &city})
		require.NoError(t, err)
		assert.Equal(t, "Kazan", updated.City)
		assert.Equal(t, "Test", updated.FirstName)

		_, err = storage.GetUserByID(ctx, 999999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("course visibility", func(t *testing.T) {
		f := newTestDataFactory(t, storage)
		owner := f.user()
		other := f.user()
		c1 := f.course(owner.ID, "Owner course")
		f.course(other.ID, "Other course")
		f.lesson(c1.ID, owner.ID, "Intro")

		own, count, err := storage.ListCourses(ctx, access.OwnedBy(owner.ID), owner.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		require.Len(t, own, 1)
		assert.Equal(t, c1.ID, own[0].ID)
		assert.Equal(t, 1, own[0].LessonCount)
		assert.Equal(t, "10000.00", own[0].Price.StringFixed(2))

		for _, c := range own {
			assert.Equal(t, owner.ID, c.OwnerID)
		}

		none, count, err := storage.ListCourses(ctx, access.None(), 0, 10, 0)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, none)

		all, count, err := storage.ListCourses(ctx, access.All(), other.ID, 1, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, 2)
		assert.Len(t, all, 1)
	})

	t.Run("course update and touch", func(t *testing.T) {
		f := newTestDataFactory(t, storage)
		owner := f.user()
		c := f.course(owner.ID, "Before")

		title := "After"
		price := models.MustMoney("99.90")
		updated, err := storage.UpdateCourse(ctx, c.ID, models.UpdateCourseRequest{Title: &title, Price: &price})
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Title)
		assert.Equal(t, "99.90", updated.Price.StringFixed(2))
		assert.True(t, updated.UpdatedAt.Equal(c.UpdatedAt))

		now := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)
		prev, err := storage.TouchCourse(ctx, c.ID, now)
		require.NoError(t, err)
		assert.True(t, prev.Equal(c.UpdatedAt))

		prev, err = storage.TouchCourse(ctx, c.ID, now.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, prev.Equal(now))

		_, err = storage.TouchCourse(ctx, 999999, now)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("subscription toggle", func(t *testing.T) {
		f := newTestDataFactory(t, storage)
		u := f.user()
		c := f.course(u.ID, "Subscribed")

		res, err := storage.ToggleSubscription(ctx, u.ID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionAdded, res)

		emails, err := storage.SubscriberEmails(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{u.Email}, emails)

		res, err = storage.ToggleSubscription(ctx, u.ID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionRemoved, res)

		subscribed, err := storage.IsSubscribed(ctx, u.ID, c.ID)
		require.NoError(t, err)
		assert.False(t, subscribed)

		_, err = storage.ToggleSubscription(ctx, u.ID, 999999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("subscription toggle concurrent", func(t *testing.T) {
		f := newTestDataFactory(t, storage)
		u := f.user()
		c := f.course(u.ID, "Race")

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := storage.ToggleSubscription(ctx, u.ID, c.ID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		var rows int
		require.NoError(t, storage.db.GetContext(ctx, &rows,
			`SELECT COUNT(*) FROM subscriptions WHERE user_id = $1 AND course_id = $2`, u.ID, c.ID))
		assert.LessOrEqual(t, rows, 1)
	})

	t.Run("payments", func(t *testing.T) {
		f := newTestDataFactory(t, storage)
		u := f.user()
		other := f.user()
		c := f.course(u.ID, "Paid course")

		p, err := storage.CreatePayment(ctx, models.Payment{
			UserID:   u.ID,
			CourseID: &c.ID,
			Amount:   c.Price,
			Method:   models.PaymentMethodTransfer,
		})
		require.NoError(t, err)
		assert.False(t, p.IsPaid)

		_, err = storage.CreatePayment(ctx, models.Payment{UserID: u.ID, Amount: c.Price, Method: models.PaymentMethodCash})
		assert.Error(t, err)

		require.NoError(t, storage.AttachSession(ctx, p.ID, "cs_test_1", "https://checkout.example.com/cs_test_1"))

		changed, err := storage.MarkPaid(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, changed)
		changed, err = storage.MarkPaid(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, changed)

		got, err := storage.GetPayment(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPaid)
		assert.Equal(t, "cs_test_1", got.SessionID)

		list, count, err := storage.ListPayments(ctx, access.OwnedBy(other.ID), models.PaymentFilter{}, 10, 0)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, list)

		list, count, err = storage.ListPayments(ctx, access.OwnedBy(u.ID), models.PaymentFilter{
			CourseID: &c.ID,
			Method:   models.PaymentMethodTransfer,
			Ordering: "-payment_date",
		}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		require.Len(t, list, 1)

		require.NoError(t, storage.DeletePayment(ctx, p.ID))
		_, err = storage.GetPayment(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deactivate inactive", func(t *testing.T) {
		f := newTestDataFactory(t, storage)
		stale := f.user()
		fresh := f.user()
		super := f.user(func(u *models.User) { u.IsSuperuser = true })

		old := time.Now().Add(-40 * 24 * time.Hour)
		require.NoError(t, storage.TouchLastLogin(ctx, stale.ID, old))
		require.NoError(t, storage.TouchLastLogin(ctx, super.ID, old))
		require.NoError(t, storage.TouchLastLogin(ctx, fresh.ID, time.Now()))

		n, err := storage.DeactivateInactive(ctx, time.Now().Add(-30*24*time.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		got, err := storage.GetUserByID(ctx, stale.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		got, err = storage.GetUserByID(ctx, super.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive)
		got, err = storage.GetUserByID(ctx, fresh.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive)
	})

	t.Run("delete user cascades", func(t *testing.T) {
		f := newTestDataFactory(t, storage)
		u := f.user()
		c := f.course(u.ID, "Gone")

		require.NoError(t, storage.DeleteUser(ctx, u.ID))
		_, err := storage.GetCourse(ctx, c.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, storage.DeleteUser(ctx, u.ID), ErrNotFound)
	})
}
