package memory_test

import (
	"testing"

	"github.com/aretw0/bloom/pkg/adapters/memory"
	"github.com/aretw0/bloom/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}
