// Package manifest assembles the storage initializers of all storage
// variables of a contract into the slot list deployed with it.
package manifest

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/unicornultrafoundation/go-slotinit/common"
	"github.com/unicornultrafoundation/go-slotinit/ir"
	"github.com/unicornultrafoundation/go-slotinit/storage"
)

// ErrSlotCollision is returned when two storage variables claim the same slot.
var ErrSlotCollision = errors.New("storage slot assigned twice")

// Declaration is a storage variable with its initial value.
type Declaration struct {
	Name  string
	Index storage.StateIndex
	Type  ir.Type
	Value *ir.Constant
}

// Manifest is the list of storage slots initialized at deployment.
type Manifest []storage.Initializer

// Build lays out every declaration with enc, using up to workers goroutines
// (0 means no limit). Slots are listed in declaration order.
func Build(enc *storage.Encoder, decls []Declaration, workers int) (Manifest, error) {
	results := make([][]storage.Initializer, len(decls))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, d := range decls {
		i, d := i, d
		g.Go(func() error {
			inits, err := enc.SerializeToStorageInitializers(d.Value, d.Type, d.Index, nil)
			if err != nil {
				return errors.Wrapf(err, "storage variable %s", d.Name)
			}
			enc.Log.WithFields(logrus.Fields{
				"name":  d.Name,
				"index": d.Index,
				"slots": len(inits),
			}).Debug("Laid out storage variable")
			results[i] = inits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	owners := make(map[common.Hash]string)
	var m Manifest
	for i, inits := range results {
		for _, init := range inits {
			if prev, ok := owners[init.Slot]; ok {
				return nil, errors.Wrapf(ErrSlotCollision, "slot %s of %s already used by %s", init.Slot.Hex(), decls[i].Name, prev)
			}
			owners[init.Slot] = decls[i].Name
			m = append(m, init)
		}
	}
	return m, nil
}

// Sort orders the slots by key.
func (m Manifest) Sort() {
	sort.Slice(m, func(i, j int) bool {
		return bytes.Compare(m[i].Slot[:], m[j].Slot[:]) < 0
	})
}

// Lookup returns the initial value of slot.
func (m Manifest) Lookup(slot common.Hash) (common.Hash, bool) {
	for _, init := range m {
		if init.Slot == slot {
			return init.Value, true
		}
	}
	return common.Hash{}, false
}

// WriteJSON writes the manifest as [{"key": "<hex>", "value": "<hex>"}, ...].
func (m Manifest) WriteJSON(w io.Writer) error {
	if m == nil {
		m = Manifest{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ReadJSON reads a manifest written by WriteJSON.
func ReadJSON(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decode storage manifest")
	}
	return m, nil
}
