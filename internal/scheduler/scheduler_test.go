package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"feedpress/internal/model"
	"feedpress/internal/scheduler"
	"feedpress/internal/service"
	"feedpress/internal/service/mock"
)

func staticSources(sources ...model.FeedSource) service.SourceFunc {
	return func() ([]model.FeedSource, error) { return sources, nil }
}

func TestScheduler(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockGen := mock.NewMockGeneratorService(ctrl)
	source := model.FeedSource{URL: "http://x/feed"}

	var calls int32
	mockGen.EXPECT().Generate(gomock.Any(), []model.FeedSource{source}).
		DoAndReturn(func(context.Context, []model.FeedSource) (*service.GenerateResult, error) {
			atomic.AddInt32(&calls, 1)
			return &service.GenerateResult{}, nil
		}).AnyTimes()

	s := scheduler.New(mockGen, staticSources(source), 100*time.Millisecond)
	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	// once on start plus at least one tick
	require.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestScheduler_StopCancelsRunningGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockGen := mock.NewMockGeneratorService(ctrl)

	started := make(chan struct{})
	mockGen.EXPECT().Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ []model.FeedSource) (*service.GenerateResult, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	s := scheduler.New(mockGen, staticSources(), time.Hour)
	s.Start()
	<-started

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not cancel the running generation")
	}
}

func TestScheduler_SourceErrorSkipsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockGen := mock.NewMockGeneratorService(ctrl)
	// Generate must not be called

	var loads int32
	s := scheduler.New(mockGen, func() ([]model.FeedSource, error) {
		atomic.AddInt32(&loads, 1)
		return nil, errors.New("bad config")
	}, time.Hour)
	s.Start()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&loads) == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
}
