package poll

import (
	"strings"

	"github.com/gescheit/fastsnmp/snmp"
)

// Cell is one emitted (column, index, value) triple from a single response,
// aligned to the Job's original column order (spec §4.3).
type Cell struct {
	ColumnIndex int
	MainOID     string
	IndexPart   string
	Value       snmp.Value
}

// assembleRows re-interleaves one GetBulk response's flat varbind list into
// per-column cells, following spec §4.3's algorithm:
//
//  1. varbinds are consumed in row-major order, cycling over the columns
//     that were still live when the request for this response was sent;
//  2. a varbind whose OID doesn't have mainOIDs[p]+"." as a prefix, or
//     whose value is terminal (Null/EndOfMibView/NoSuchObject/
//     NoSuchInstance), marks column p finished for the rest of this walk
//     and is not emitted;
//  3. otherwise the cell is emitted and lastSeen[p] is updated to the
//     varbind's OID;
//  4. scanning stops once every requested column has been marked finished;
//  5. if the response runs out of varbinds mid-row (fewer remain than the
//     number of columns requested, including any that died earlier in this
//     response), the partial row is dropped entirely — the next request
//     re-aligns from the last fully completed row.
//
// liveColumns and lastSeen (both indexed by the Job's original column
// position, length == len(mainOIDs)) are mutated in place to reflect this
// response; lastSeen is left untouched for a column with no emitted cell.
// The engine builds the continuation request from them with
// continuationVarbindOIDs; nextOIDsToPoll gives the full-length view.
//
// Detecting a dead column by prefix mismatch rather than OID comparison is
// the correctness hinge here: a GetBulk agent that has walked a column off
// the end of its subtree may return the next OID lexicographically, which
// belongs to an entirely different subtree and must not be attributed to
// the wrong column (spec §4.3 Rationale).
func assembleRows(mainOIDs []string, liveColumns []bool, lastSeen []string, varbinds []snmp.Varbind) []Cell {
	var liveIndices []int
	for p, live := range liveColumns {
		if live {
			liveIndices = append(liveIndices, p)
		}
	}
	k := len(liveIndices)
	if k == 0 {
		return nil
	}

	finishedThisResponse := make([]bool, k)
	finishedCount := 0
	var cells []Cell

	for i := 0; i < len(varbinds); {
		if len(varbinds)-i < k {
			// Not enough varbinds left to complete this row: the inner
			// loop below always consumes a fixed k slots per iteration,
			// regardless of how many columns already died earlier in
			// this same response.
			break
		}

		for j := 0; j < k; j++ {
			p := liveIndices[j]
			vb := varbinds[i]
			i++

			if finishedThisResponse[j] {
				continue
			}

			prefix := mainOIDs[p] + "."
			if !strings.HasPrefix(vb.OID, prefix) || vb.Value.IsTerminal() {
				finishedThisResponse[j] = true
				liveColumns[p] = false
				finishedCount++
				continue
			}

			cells = append(cells, Cell{
				ColumnIndex: p,
				MainOID:     mainOIDs[p],
				IndexPart:   vb.OID[len(prefix):],
				Value:       vb.Value,
			})
			lastSeen[p] = vb.OID
		}

		if finishedCount == k {
			break
		}
	}

	return cells
}

// columnDone is the terminator marker nextOIDsToPoll reports for a column
// that has finished walking; it is never a valid index suffix since every
// live lastSeen entry is a full dotted OID.
const columnDone = ""

// nextOIDsToPoll builds the full-length (len(mainOIDs)) next-round index
// list: lastSeen[p] for each still-live column p, columnDone for a finished
// one (spec §4.3 Output / §4.2 Continuation policy).
func nextOIDsToPoll(liveColumns []bool, lastSeen []string) []string {
	out := make([]string, len(liveColumns))
	for p, live := range liveColumns {
		if live {
			out[p] = lastSeen[p]
		} else {
			out[p] = columnDone
		}
	}
	return out
}

// allColumnsFinished reports whether every column in a Job's liveColumns
// has terminated, i.e. the walk is complete (spec §3 Lifecycle).
func allColumnsFinished(liveColumns []bool) bool {
	for _, live := range liveColumns {
		if live {
			return false
		}
	}
	return true
}

// continuationVarbindOIDs builds the OID list for the next GetBulk request.
// lastSeen[p] already holds the full last-seen OID under column p (mainOID
// + "." + index_part, spec §4.3 Output), so the continuation varbind for a
// live column is that value directly; GetBulk's semantics ("return the next
// instances strictly after this OID") pick up the walk from there. The
// Job's MainOIDs carried forward stays the original full list so index
// parts keep re-aligning correctly across retries (spec §4.3 Continuation
// policy).
func continuationVarbindOIDs(liveColumns []bool, lastSeen []string) []string {
	var out []string
	for p, live := range liveColumns {
		if !live {
			continue
		}
		out = append(out, lastSeen[p])
	}
	return out
}
