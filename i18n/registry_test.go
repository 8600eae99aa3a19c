// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/tscatalog/i18n"
)

func TestRegistry_SetLocale(t *testing.T) {
	t.Parallel()

	r := i18n.NewRegistry(loadBundle(t))

	assert.Equal(t, "en", r.CurrentLocale())
	assert.Equal(t, "Star Platinum", r.Resolve("qfw::BasicInputInterface", "Star Platinum"))

	require.NoError(t, r.SetLocale("zh_CN"))
	assert.Equal(t, "zh_CN", r.CurrentLocale())
	assert.Equal(t, "白金之星", r.Resolve("qfw::BasicInputInterface", "Star Platinum"))
	assert.Equal(t, "选择 ", r.Resolve("qfw::ColorPickerButton", "Choose "))

	t.Run("failure keeps the current locale", func(t *testing.T) {
		err := r.SetLocale("fr")
		require.ErrorIs(t, err, i18n.ErrLocaleNotFound)

		assert.Equal(t, "zh_CN", r.CurrentLocale())
		assert.Equal(t, "白金之星", r.Resolve("qfw::BasicInputInterface", "Star Platinum"))
	})

	t.Run("back to base", func(t *testing.T) {
		require.NoError(t, r.SetLocale("en"))
		assert.Equal(t, "Star Platinum", r.Resolve("qfw::BasicInputInterface", "Star Platinum"))

		r.Use(nil)
		assert.Equal(t, "en", r.CurrentLocale())
	})
}

func TestRegistry_ConcurrentSwitch(t *testing.T) {
	t.Parallel()

	r := i18n.NewRegistry(loadBundle(t))

	const (
		readers = 8
		rounds  = 200
	)

	var wg sync.WaitGroup

	for range readers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range rounds {
				loc := r.Locale()

				got := loc.Resolve("qfw::BasicInputInterface", "Star Platinum")
				if loc.ID() == "zh_CN" {
					assert.Equal(t, "白金之星", got)
				} else {
					assert.Equal(t, "Star Platinum", got)
				}

				assert.Contains(t, []string{"Star Platinum", "白金之星"}, r.Resolve("qfw::BasicInputInterface", "Star Platinum"))
			}
		}()
	}

	for i := range rounds {
		id := "en"
		if i%2 == 0 {
			id = "zh_CN"
		}

		assert.NoError(t, r.SetLocale(id))
	}

	wg.Wait()
}
