package world

import (
	"container/heap"
	"errors"
)

var ErrUnreachable = errors.New("no path to goal")

// FindPath runs A* over the four cardinal directions with the Manhattan distance
// heuristic. The returned path includes start and goal. Ties between frontier
// nodes are broken by insertion order so the result is deterministic.
func FindPath(m *Map, start, goal Point) ([]Point, error) {
	if !m.InBounds(start) || !m.InBounds(goal) {
		return nil, ErrUnreachable
	}
	if !m.IsPassable(goal) {
		return nil, ErrUnreachable
	}
	if start == goal {
		return []Point{start}, nil
	}

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &pathNode{pos: start, h: start.ManhattanDistance(goal)})

	cameFrom := map[Point]Point{}
	costSoFar := map[Point]int{start: 0}
	seq := 0

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if current.pos == goal {
			return rebuild(cameFrom, start, goal), nil
		}
		for _, next := range current.pos.Neighbors() {
			if !m.IsPassable(next) {
				continue
			}
			cost := costSoFar[current.pos] + 1
			if prev, ok := costSoFar[next]; ok && cost >= prev {
				continue
			}
			costSoFar[next] = cost
			cameFrom[next] = current.pos
			seq++
			heap.Push(open, &pathNode{pos: next, g: cost, h: next.ManhattanDistance(goal), seq: seq})
		}
	}
	return nil, ErrUnreachable
}

func rebuild(cameFrom map[Point]Point, start, goal Point) []Point {
	path := []Point{goal}
	for at := goal; at != start; {
		at = cameFrom[at]
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type pathNode struct {
	pos Point
	g   int
	h   int
	seq int
	idx int
}

func (n *pathNode) f() int { return n.g + n.h }

type nodeHeap []*pathNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].f() != h[j].f() {
		return h[i].f() < h[j].f()
	}
	return h[i].seq < h[j].seq
}

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].idx = i
	h[j].idx = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*pathNode)
	n.idx = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
