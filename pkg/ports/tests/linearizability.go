package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/anishathalye/porcupine"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotOp bool

const (
	slotLoad slotOp = false
	slotSave slotOp = true
)

// slotRequest is a Save or Load of one (run, index) slot. Steps identifies
// the record written; zero stands for "no record".
type slotRequest struct {
	Op    slotOp
	Steps int
}

type slotResponse struct {
	Err   error
	Steps int
}

// slotModel is a read/write register holding the steps of the last saved record.
func slotModel() porcupine.Model {
	return porcupine.Model{
		Init: func() interface{} {
			return 0
		},
		Step: func(state interface{}, input interface{}, output interface{}) (bool, interface{}) {
			st := state.(int)
			inp := input.(slotRequest)
			out := output.(slotResponse)

			if inp.Op == slotLoad {
				return out.Err != nil || out.Steps == st, st
			}
			if out.Err != nil {
				// A failed save may or may not have landed.
				return true, st
			}
			return true, inp.Steps
		},
		Equal: func(state1, state2 interface{}) bool {
			return state1.(int) == state2.(int)
		},
	}
}

// RunResultStoreLinearizability hammers a single record slot from several
// clients and checks the observed history against a register model.
func RunResultStoreLinearizability(t *testing.T, store ports.ResultStore) {
	const (
		clients = 4
		rounds  = 20
		runID   = "linearizable"
		index   = 7
	)

	ctx := context.Background()
	base := sampleRecord(t, index, domain.OutcomeExhausted)
	require.NoError(t, store.Delete(ctx, runID))

	start := time.Now()
	var (
		mu  sync.Mutex
		ops []porcupine.Operation
		wg  sync.WaitGroup
	)

	for c := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rounds {
				var (
					req  slotRequest
					resp slotResponse
				)
				call := time.Since(start).Nanoseconds()
				if (c+i)%2 == 0 {
					req = slotRequest{Op: slotSave, Steps: c*1000 + i + 1}
					rec := base
					rec.Result.Steps = req.Steps
					resp.Err = store.Save(ctx, runID, rec)
				} else {
					req = slotRequest{Op: slotLoad}
					rec, err := store.Load(ctx, runID, index)
					switch {
					case errors.Is(err, domain.ErrResultNotFound):
					case err != nil:
						resp.Err = err
					default:
						resp.Steps = rec.Result.Steps
					}
				}
				ret := time.Since(start).Nanoseconds()
				assert.NoError(t, resp.Err, fmt.Sprintf("client %d round %d", c, i))

				mu.Lock()
				ops = append(ops, porcupine.Operation{Input: req, Call: call, Output: resp, Return: ret})
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ops, clients*rounds)
	assert.True(t, porcupine.CheckOperations(slotModel(), ops), "history is not linearizable")
}
