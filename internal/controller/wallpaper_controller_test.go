package controller

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"pixelwall_backend/internal/model"
	"pixelwall_backend/internal/store"
	"pixelwall_backend/pkg/plan"
)

// fakeAllowances günlük sayaçların koşullu UPDATE davranışını taklit eder;
// sayaç sıfırdayken düşürmez, ErrNoAllowance döner
type fakeAllowances struct {
	mu       sync.Mutex
	counters map[uint]map[plan.Resolution]int
}

func newFakeAllowances() *fakeAllowances {
	return &fakeAllowances{counters: make(map[uint]map[plan.Resolution]int)}
}

func (f *fakeAllowances) grant(userID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[userID] = map[plan.Resolution]int{
		plan.Res4K: model.DefaultDownloads4K,
		plan.Res8K: model.DefaultDownloads8K,
	}
}

func (f *fakeAllowances) ConsumeAllowance(userID uint, res plan.Resolution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.counters[userID]
	if !ok || c[res] <= 0 {
		return store.ErrNoAllowance
	}
	c[res]--
	return nil
}

func (f *fakeAllowances) remaining(userID uint, res plan.Resolution) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[userID][res]
}

type fakeBalances struct {
	mu     sync.Mutex
	pixels map[uint]int
}

func (f *fakeBalances) AdjustPixels(userID uint, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pixels[userID]+delta < 0 {
		return store.ErrInsufficientPixels
	}
	f.pixels[userID] += delta
	return nil
}

func TestChargeDownload(t *testing.T) {
	t.Run("4K uses free slots before pixels", func(t *testing.T) {
		allowances := newFakeAllowances()
		allowances.grant(1)
		balances := &fakeBalances{pixels: map[uint]int{1: 10}}

		for i := 0; i < model.DefaultDownloads4K; i++ {
			charged, err := chargeDownload(allowances, balances, 1, plan.Res4K)
			assert.NoError(t, err)
			assert.Equal(t, "free_daily", charged)
		}

		// Ücretsiz haklar bitti, artık 1 pixel
		charged, err := chargeDownload(allowances, balances, 1, plan.Res4K)
		assert.NoError(t, err)
		assert.Equal(t, "1_pixels", charged)
		assert.Equal(t, 9, balances.pixels[1])
		assert.Equal(t, 0, allowances.remaining(1, plan.Res4K))
	})

	t.Run("8K has no free slots and costs 2 pixels", func(t *testing.T) {
		allowances := newFakeAllowances()
		allowances.grant(1)
		balances := &fakeBalances{pixels: map[uint]int{1: 5}}

		charged, err := chargeDownload(allowances, balances, 1, plan.Res8K)
		assert.NoError(t, err)
		assert.Equal(t, "2_pixels", charged)
		assert.Equal(t, 3, balances.pixels[1])
	})

	t.Run("insufficient balance surfaces sentinel and charges nothing", func(t *testing.T) {
		allowances := newFakeAllowances()
		allowances.grant(1)
		balances := &fakeBalances{pixels: map[uint]int{1: 1}}

		_, err := chargeDownload(allowances, balances, 1, plan.Res8K)
		assert.ErrorIs(t, err, store.ErrInsufficientPixels)
		assert.Equal(t, 1, balances.pixels[1])
	})

	t.Run("exhausted counter never goes negative", func(t *testing.T) {
		allowances := newFakeAllowances()
		allowances.grant(1)
		balances := &fakeBalances{pixels: map[uint]int{1: 100}}

		for i := 0; i < model.DefaultDownloads4K+3; i++ {
			_, err := chargeDownload(allowances, balances, 1, plan.Res4K)
			assert.NoError(t, err)
		}
		assert.Equal(t, 0, allowances.remaining(1, plan.Res4K))
		assert.Equal(t, 97, balances.pixels[1])
	})

	t.Run("daily reset restores free slots", func(t *testing.T) {
		allowances := newFakeAllowances()
		allowances.grant(1)
		balances := &fakeBalances{pixels: map[uint]int{1: 10}}

		for i := 0; i < model.DefaultDownloads4K; i++ {
			_, err := chargeDownload(allowances, balances, 1, plan.Res4K)
			assert.NoError(t, err)
		}

		// Gece cron'unun yaptığı sıfırlama sonrası yine ücretsiz
		allowances.grant(1)
		charged, err := chargeDownload(allowances, balances, 1, plan.Res4K)
		assert.NoError(t, err)
		assert.Equal(t, "free_daily", charged)
		assert.Equal(t, 10, balances.pixels[1])
	})
}
