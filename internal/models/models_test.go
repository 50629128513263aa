package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Price Money `json:"price"`
	}{Price: MustMoney("10000")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"10000.00"}`, string(data))

	var in struct {
		Price *Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"12.5"}`), &in))
	require.NotNil(t, in.Price)
	assert.Equal(t, "12.50", in.Price.StringFixed(2))

	require.NoError(t, json.Unmarshal([]byte(`{"price":99.99}`), &in))
	assert.Equal(t, "99.99", in.Price.StringFixed(2))
}

func TestMoney_UnmarshalRoundsToCents(t *testing.T) {
	var in struct {
		Price *Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"0.004"}`), &in))
	assert.False(t, in.Price.IsPositive())

	require.NoError(t, json.Unmarshal([]byte(`{"price":123456789012}`), &in))
	assert.True(t, in.Price.Overflows())

	assert.False(t, MustMoney("99999999.99").Overflows())
	assert.True(t, MustMoney("-100000000").Overflows())
}

func TestMoney_MinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"10000.00", 1000000},
		{"0.01", 1},
		{"19.99", 1999},
		{"1.005", 101},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := NewMoney(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.MinorUnits())
		})
	}
}

func TestMoney_IsPositive(t *testing.T) {
	assert.True(t, MustMoney("0.01").IsPositive())
	assert.False(t, MustMoney("0").IsPositive())
	assert.False(t, MustMoney("-5").IsPositive())
	assert.False(t, Money{}.IsPositive())
}

func TestNewJob(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	job, err := NewJob(TaskNotifySubscribers, NotifySubscribersArgs{CourseID: 7, CourseTitle: "Go"}, now)
	require.NoError(t, err)

	data, err := json.Marshal(job)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"task": "course.notify_subscribers",
		"args": {"course_id": 7, "course_title": "Go"},
		"enqueued_at": "2024-05-01T12:00:00Z"
	}`, string(data))
}

func TestNewPage_NilResults(t *testing.T) {
	page := NewPage[Course](nil, 0, 1, 10)
	data, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"page":1,"page_size":10,"results":[]}`, string(data))
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentMethodCash.Valid())
	assert.True(t, PaymentMethodTransfer.Valid())
	assert.False(t, PaymentMethod("crypto").Valid())
}

func TestProfileUpdate_IsEmpty(t *testing.T) {
	assert.True(t, ProfileUpdate{}.IsEmpty())
	city := "Kazan"
	assert.False(t, ProfileUpdate{City: &city}.IsEmpty())
}
