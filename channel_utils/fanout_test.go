package channel_utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut_PreservesInputOrder(t *testing.T) {
	workerPool, err := ants.NewPool(8)
	require.NoError(t, err)
	defer workerPool.Release()

	results, err := FanOut(workerPool, 4, func(slot int) (string, error) {
		// later slots finish first
		time.Sleep(time.Duration(4-slot) * 5 * time.Millisecond)
		return fmt.Sprintf("result-%d", slot), nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"result-0", "result-1", "result-2", "result-3"}, results)
}

func TestFanOut_FailureNamesTheSlot(t *testing.T) {
	workerPool, err := ants.NewPool(8)
	require.NoError(t, err)
	defer workerPool.Release()

	results, err := FanOut(workerPool, 4, func(slot int) (string, error) {
		if slot == 2 {
			return "", fmt.Errorf("render rejected")
		}
		return "ok", nil
	})

	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "slot 3")
	assert.Contains(t, err.Error(), "render rejected")
}

func TestFanOut_WaitsForEverySlot(t *testing.T) {
	workerPool, err := ants.NewPool(8)
	require.NoError(t, err)
	defer workerPool.Release()

	done := make([]bool, 4)
	_, err = FanOut(workerPool, 4, func(slot int) (int, error) {
		time.Sleep(time.Duration(slot) * 2 * time.Millisecond)
		done[slot] = true
		if slot == 0 {
			return 0, fmt.Errorf("first slot fails fast")
		}
		return slot, nil
	})

	require.Error(t, err)
	for slot, finished := range done {
		assert.True(t, finished, "slot %d should have settled before FanOut returned", slot)
	}
}
