package cfg

import "sort"

// Reachable returns the set of instruction PCs reachable from EntryPC,
// following real edges and expanding through whole blocks (every
// instruction in a reached block is reachable).
func (c *CFG) Reachable() map[int]bool {
	reached := make(map[int]bool)
	visitedBlocks := make(map[int]bool)
	var stack []int
	if _, ok := c.Blocks[c.EntryPC]; ok {
		stack = append(stack, c.EntryPC)
	}

	for len(stack) > 0 {
		start := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visitedBlocks[start] {
			continue
		}
		visitedBlocks[start] = true

		block := c.Blocks[start]
		for _, instr := range block.Instructions {
			reached[instr.PC] = true
		}
		for _, succ := range block.Successors {
			if !visitedBlocks[succ] {
				stack = append(stack, succ)
			}
		}
	}
	return reached
}

// UnreachablePCs returns the instruction PCs, ascending, that are not
// reachable from EntryPC.
func (c *CFG) UnreachablePCs() []int {
	reached := c.Reachable()
	var unreachable []int
	for _, start := range c.Order {
		for _, instr := range c.Blocks[start].Instructions {
			if !reached[instr.PC] {
				unreachable = append(unreachable, instr.PC)
			}
		}
	}
	sort.Ints(unreachable)
	return unreachable
}

// tarjanState carries the bookkeeping for one run of Tarjan's
// algorithm over the block graph.
type tarjanState struct {
	cfg      *CFG
	index    map[int]int
	lowlink  map[int]int
	onStack  map[int]bool
	stack    []int
	counter  int
	sccs     [][]int
}

// FindStronglyConnectedComponents runs Tarjan's algorithm over the
// block graph (edges with TargetPC >= 0 only). Both the outer
// iteration order and each node's successor iteration order are
// ascending by PC, as spec.md §4.F requires for deterministic output.
// Each returned SCC is sorted ascending; the list of SCCs is sorted by
// each SCC's lowest PC ascending.
func (c *CFG) FindStronglyConnectedComponents() [][]int {
	st := &tarjanState{
		cfg:     c,
		index:   make(map[int]int),
		lowlink: make(map[int]int),
		onStack: make(map[int]bool),
	}

	for _, start := range c.Order {
		if _, visited := st.index[start]; !visited {
			st.strongconnect(start)
		}
	}

	sort.Slice(st.sccs, func(i, j int) bool {
		return st.sccs[i][0] < st.sccs[j][0]
	})
	return st.sccs
}

func (st *tarjanState) strongconnect(v int) {
	st.index[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, w := range st.cfg.Blocks[v].Successors {
		if _, visited := st.index[w]; !visited {
			st.strongconnect(w)
			if st.lowlink[w] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[w]
			}
		} else if st.onStack[w] {
			if st.index[w] < st.lowlink[v] {
				st.lowlink[v] = st.index[w]
			}
		}
	}

	if st.lowlink[v] == st.index[v] {
		var scc []int
		for {
			n := len(st.stack) - 1
			w := st.stack[n]
			st.stack = st.stack[:n]
			st.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		sort.Ints(scc)
		st.sccs = append(st.sccs, scc)
	}
}

// FindInfiniteLoopSCCs returns the lowest block StartPC of each SCC
// that is an infinite loop: one with no exit PC inside it and no edge
// leaving it to a PC outside it. A single-node SCC counts only if it
// has a self-loop.
func (c *CFG) FindInfiniteLoopSCCs() []int {
	exitPCs := make(map[int]bool, len(c.ExitPCs))
	for _, pc := range c.ExitPCs {
		exitPCs[pc] = true
	}

	var offending []int
	for _, scc := range c.FindStronglyConnectedComponents() {
		members := make(map[int]bool, len(scc))
		for _, start := range scc {
			members[start] = true
		}

		hasExit := false
		leaves := false
		selfLoop := false
		for _, start := range scc {
			block := c.Blocks[start]
			for _, instr := range block.Instructions {
				if exitPCs[instr.PC] {
					hasExit = true
				}
			}
			for _, succ := range block.Successors {
				if !members[succ] {
					leaves = true
				}
				if succ == start {
					selfLoop = true
				}
			}
		}

		if hasExit || leaves {
			continue
		}
		if len(scc) == 1 && !selfLoop {
			continue
		}
		offending = append(offending, scc[0])
	}

	sort.Ints(offending)
	return offending
}
