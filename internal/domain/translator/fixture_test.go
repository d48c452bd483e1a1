package translator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"eud4xr-bridge/internal/domain/entity"
	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
)

// newWorld registers lamp1 (ECAObject + ECALight), door1, bob and apple.
func newWorld(t *testing.T) *Resolver {
	t.Helper()
	reg := registry.Default()
	store := entity.NewStore()
	for _, name := range []string{"lamp1@ECAObject", "lamp1@ECALight", "door1@ECADoor", "bob@Character", "apple@Food"} {
		typ, ok := reg.Type(model.TypeSuffixOf(name))
		require.True(t, ok, name)
		store.Add(entity.New(typ, model.VirtualObjectPair{GameObject: name, UnityID: model.GroupOf(name)}))
	}
	return NewResolver(store)
}
