package sema

import (
	"fmt"
	"sort"
	"strings"

	"keel/internal/diag"
	"keel/internal/types"
)

// CheckValueRecursion builds the value-type containment graph and rejects
// cycles. A value type embeds another value type whenever an instance
// field's core type (nilability stripped) is a value entry; such storage
// is inline, so any direct or mutual cycle would need unbounded size.
// Classes break cycles because their fields hold references.
//
// Runs last: it needs every field type fully resolved.
type dfsColor uint8

const (
	colorWhite dfsColor = iota
	colorGray
	colorBlack
)

func CheckValueRecursion(ctx *Context) {
	rc := &recursionChecker{
		ctx:      ctx,
		colors:   make(map[types.EntryID]dfsColor),
		reported: make(map[string]bool),
	}
	for _, entry := range ctx.Types.Entries() {
		if entry.Kind == types.EntryValue && !entry.Builtin {
			rc.visit(entry, nil)
		}
	}
}

type recursionChecker struct {
	ctx      *Context
	colors   map[types.EntryID]dfsColor
	reported map[string]bool // keyed by cycle member set
}

func (rc *recursionChecker) visit(entry *types.Entry, stack []*types.Entry) {
	switch rc.colors[entry.ID] {
	case colorBlack:
		return
	case colorGray:
		rc.reportCycle(entry, stack)
		return
	}
	rc.colors[entry.ID] = colorGray
	stack = append(stack, entry)

	for _, edge := range rc.edges(entry) {
		rc.visit(edge, stack)
	}
	rc.colors[entry.ID] = colorBlack
}

// edges lists the value types entry embeds directly, in field order.
func (rc *recursionChecker) edges(entry *types.Entry) []*types.Entry {
	var out []*types.Entry
	for _, f := range entry.InstanceFields {
		if f.Type == types.NoTypeID {
			continue
		}
		core := rc.ctx.Types.Strip(f.Type)
		target := rc.ctx.Types.EntryOf(core)
		if target != nil && target.Kind == types.EntryValue && !target.Builtin {
			out = append(out, target)
		}
	}
	return out
}

// reportCycle emits one error per cycle, anchored at the re-entered type,
// listing every member in containment order. Suppression keys on the
// cycle's member set, so two distinct cycles sharing a type (A<->B and
// A<->C) each get their own diagnostic.
func (rc *recursionChecker) reportCycle(entry *types.Entry, stack []*types.Entry) {
	start := 0
	for i, e := range stack {
		if e.ID == entry.ID {
			start = i
			break
		}
	}
	cycle := stack[start:]
	if len(cycle) == 0 {
		return
	}
	key := cycleKey(cycle)
	if rc.reported[key] {
		return
	}
	rc.reported[key] = true

	var names []string
	for _, e := range cycle {
		names = append(names, rc.ctx.name(e.Name))
	}
	names = append(names, rc.ctx.name(entry.Name))
	rc.ctx.errorf(diag.SemaRecursiveValueType, entry.Decl,
		fmt.Sprintf("value type %q embeds itself: %s",
			rc.ctx.name(entry.Name), strings.Join(names, " -> ")))
}

// cycleKey canonicalizes a cycle by its member set; rotations of the
// same cycle map to one key.
func cycleKey(cycle []*types.Entry) string {
	ids := make([]uint32, 0, len(cycle))
	for _, e := range cycle {
		ids = append(ids, uint32(e.ID))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "%d,", id)
	}
	return b.String()
}
