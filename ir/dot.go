/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ir

import (
	"fmt"
	"html"
	"strings"

	"github.com/oleiade/lane"
)

func dotrow(buf []string, w *int, ss string) []string {
	vv := strings.ReplaceAll(html.EscapeString(ss), " ", "&nbsp;")
	if len(ss) > *w {
		*w = len(ss)
	}
	return append(buf, fmt.Sprintf("<tr><td align=\"left\">%s</td></tr>\n", vv))
}

func dotblock(bb *Block) string {
	var w int
	var phi []string
	var ins []string
	var term []string
	var meta []string

	/* phi nodes, instructions and the terminator */
	for _, v := range bb.Phis {
		phi = dotrow(phi, &w, v.String())
	}
	for _, v := range bb.Ins {
		ins = dotrow(ins, &w, v.String())
	}
	if bb.Term != nil {
		term = dotrow(term, &w, bb.termString())
	}

	/* dominance metadata */
	idom := "∅"
	if bb.idom != nil {
		idom = fmt.Sprintf("bb_%d", bb.idom.Id)
	}
	meta = dotrow(meta, &w, fmt.Sprintf("# pred = {%s}", blocknames(bb.Preds)))
	meta = dotrow(meta, &w, fmt.Sprintf("# idom = %s", idom))
	meta = dotrow(meta, &w, fmt.Sprintf("# idom_of = {%s}", blocknames(bb.kids)))
	meta = dotrow(meta, &w, fmt.Sprintf("# df = {%s}", blocknames(bb.df)))

	/* build the table */
	buf := []string{
		"<table border=\"1\" cellborder=\"0\" cellspacing=\"0\">\n",
		fmt.Sprintf("<tr><td width=\"%d\">bb_%d</td></tr>\n", w*10+5, bb.Id),
		"<hr/>\n",
	}

	/* add every non-empty section */
	buf = append(buf, meta...)
	for _, sec := range [][]string{phi, ins, term} {
		if len(sec) != 0 {
			buf = append(buf, "<hr/>\n")
			buf = append(buf, sec...)
		}
	}

	/* close the table */
	buf = append(buf, "</table>")
	return strings.Join(buf, "")
}

// Dot renders the control flow graph of fn, with dominance metadata, in the
// Graphviz DOT language.
func Dot(fn *Func) string {
	fn.ensureAnalyzed()
	q := lane.NewQueue()
	n := make(map[int]bool)
	e := make(map[[2]int]bool)
	buf := []string{
		"digraph CFG {",
		`    xdotversion = "15"`,
		`    graph [ fontname = "Fira Code" ]`,
		`    node [ fontname = "Fira Code" fontsize="16" shape = "plaintext" ]`,
		`    edge [ fontname = "Fira Code" ]`,
		`    START [ shape = "circle" ]`,
		`    END [ shape = "doublecircle" ]`,
		fmt.Sprintf(`    START -> bb_%d`, fn.Entry.Id),
	}

	/* breadth-first over the reachable blocks */
	for q.Enqueue(fn.Entry); !q.Empty(); {
		p := q.Dequeue().(*Block)
		if n[p.Id] {
			continue
		}

		/* the end block is drawn as a circle */
		n[p.Id] = true
		if p == fn.End {
			continue
		}

		/* dump the block */
		buf = append(buf, fmt.Sprintf(`    bb_%d [ label = < %s > ]`, p.Id, dotblock(p)))
		for i, ln := range p.Succs {
			edge := [2]int{p.Id, ln.Id}
			if !n[ln.Id] {
				q.Enqueue(ln)
			}

			/* draw every edge once */
			if e[edge] {
				continue
			}

			/* add the edge */
			e[edge] = true
			switch {
			case ln == fn.End:
				buf = append(buf, fmt.Sprintf(`    bb_%d -> END [ label = "ret" ]`, p.Id))
			case p.Term.Kind == TermBranch && i == 0:
				buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ label = "true" ]`, p.Id, ln.Id))
			case p.Term.Kind == TermBranch:
				buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ label = "false" ]`, p.Id, ln.Id))
			default:
				buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ label = "goto" ]`, p.Id, ln.Id))
			}
		}
	}

	/* close the graph */
	buf = append(buf, "}")
	return strings.Join(buf, "\n")
}
