package adapter_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/mocks"
)

func TestSleep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)

	fired := make(chan time.Time, 1)
	fired <- time.Now()
	clock.EXPECT().After(2 * time.Second).Return(fired)
	assert.True(t, adapter.Sleep(context.Background(), clock, 2*time.Second))

	// Zero waits skip the clock
	assert.True(t, adapter.Sleep(context.Background(), clock, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, adapter.Sleep(ctx, clock, 0))

	clock.EXPECT().After(time.Second).Return(make(chan time.Time))
	assert.False(t, adapter.Sleep(ctx, clock, time.Second))
}

func TestRealJSON_MarshalIndent(t *testing.T) {
	data, err := adapter.NewJSON().MarshalIndent(map[string]int{"a": 1})
	assert.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(data))
}
