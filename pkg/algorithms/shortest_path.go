package algorithms

import "fmt"

// ShortestPath finds a shortest path between two nodes using bidirectional BFS.
// It returns nil with no error when the nodes are not connected, and
// ErrNodeNotFound when either endpoint is missing from the graph.
func ShortestPath(graph Graph, startID, endID int) ([]int, error) {
	if !graph.Contains(startID) {
		return nil, fmt.Errorf("start %d: %w", startID, ErrNodeNotFound)
	}
	if !graph.Contains(endID) {
		return nil, fmt.Errorf("end %d: %w", endID, ErrNodeNotFound)
	}
	if startID == endID {
		return []int{startID}, nil
	}

	// Forward search from start
	forwardQueue := []int{startID}
	forwardVisited := map[int]int{startID: startID} // node -> parent

	// Backward search from end
	backwardQueue := []int{endID}
	backwardVisited := map[int]int{endID: endID} // node -> parent

	for len(forwardQueue) > 0 && len(backwardQueue) > 0 {
		var meeting int
		var met bool

		forwardQueue, meeting, met = expandFrontier(graph, forwardQueue, forwardVisited, backwardVisited)
		if met {
			return reconstructPath(meeting, forwardVisited, backwardVisited), nil
		}

		backwardQueue, meeting, met = expandFrontier(graph, backwardQueue, backwardVisited, forwardVisited)
		if met {
			return reconstructPath(meeting, forwardVisited, backwardVisited), nil
		}
	}

	return nil, nil // No path found
}

// expandFrontier expands one BFS level and returns the next frontier. When a
// neighbour already seen by the other search is reached, it reports it as the
// meeting node.
func expandFrontier(graph Graph, frontier []int, visited, otherVisited map[int]int) ([]int, int, bool) {
	next := make([]int, 0, len(frontier))
	for _, currentID := range frontier {
		for _, neighborID := range graph.Neighbors(currentID) {
			// Check if we've met the other search
			if _, found := otherVisited[neighborID]; found {
				if _, seen := visited[neighborID]; !seen {
					visited[neighborID] = currentID
				}
				return next, neighborID, true
			}

			if _, seen := visited[neighborID]; !seen {
				visited[neighborID] = currentID
				next = append(next, neighborID)
			}
		}
	}
	return next, 0, false
}

// reconstructPath joins start -> meeting and meeting -> end.
func reconstructPath(meetingNode int, forwardVisited, backwardVisited map[int]int) []int {
	forwardPath := make([]int, 0)
	node := meetingNode
	for node != forwardVisited[node] {
		forwardPath = append(forwardPath, node)
		node = forwardVisited[node]
	}
	forwardPath = append(forwardPath, node) // start

	for i, j := 0, len(forwardPath)-1; i < j; i, j = i+1, j-1 {
		forwardPath[i], forwardPath[j] = forwardPath[j], forwardPath[i]
	}

	// Meeting node's backward parent is itself when it is the end node
	node = backwardVisited[meetingNode]
	if node == meetingNode {
		return forwardPath
	}
	for node != backwardVisited[node] {
		forwardPath = append(forwardPath, node)
		node = backwardVisited[node]
	}
	return append(forwardPath, node) // end
}

// Distances returns the hop distance from source to every reachable node.
func Distances(graph Graph, sourceID int) map[int]int {
	if !graph.Contains(sourceID) {
		return nil
	}
	distances := map[int]int{sourceID: 0}
	queue := []int{sourceID}
	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]
		for _, neighborID := range graph.Neighbors(currentID) {
			if _, visited := distances[neighborID]; !visited {
				distances[neighborID] = distances[currentID] + 1
				queue = append(queue, neighborID)
			}
		}
	}
	return distances
}
