package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"solitaire/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// verdictStorage is the slice of runtime.NakamaModule the verdict adapter uses.
type verdictStorage interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// NakamaVerdictAdapter implements ports.VerdictPort on Nakama storage. Verdicts
// are system-owned and publicly readable.
type NakamaVerdictAdapter struct {
	nk verdictStorage
}

// NewNakamaVerdictAdapter creates a new verdict adapter.
func NewNakamaVerdictAdapter(nk verdictStorage) *NakamaVerdictAdapter {
	return &NakamaVerdictAdapter{nk: nk}
}

func (a *NakamaVerdictAdapter) GetVerdict(ctx context.Context, seed uint64) (ports.DealVerdict, bool, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: VerdictCollection, Key: formatSeed(seed)},
	})
	if err != nil {
		return ports.DealVerdict{}, false, fmt.Errorf("failed to read verdict: %w", err)
	}
	if len(objects) == 0 {
		return ports.DealVerdict{}, false, nil
	}

	var v ports.DealVerdict
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &v); err != nil {
		return ports.DealVerdict{}, false, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}
	return v, true, nil
}

func (a *NakamaVerdictAdapter) PutVerdict(ctx context.Context, v ports.DealVerdict) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      VerdictCollection,
			Key:             formatSeed(v.Seed),
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_PUBLIC_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write verdict: %w", err)
	}
	return nil
}

var _ ports.VerdictPort = (*NakamaVerdictAdapter)(nil)
