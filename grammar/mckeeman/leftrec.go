package mckeeman

// LeftRecursive returns the cycles of rules that can reach themselves
// without consuming input. A backtracking descent parser built from such a
// grammar does not terminate. Each cycle starts and ends with the same
// rule name.
func LeftRecursive(g *Grammar) [][]string {
	nullable := nullableRules(g)
	left := make(map[string][]string, len(g.Rules))
	for _, rule := range g.Rules {
		left[rule.Name] = append(left[rule.Name], leftNames(rule, nullable)...)
	}

	var cycles [][]string
	reported := map[string]bool{}
	for _, rule := range g.Rules {
		if reported[rule.Name] {
			continue
		}
		path := findCycle(rule.Name, left)
		if path == nil {
			continue
		}
		for _, name := range path {
			reported[name] = true
		}
		cycles = append(cycles, path)
	}
	return cycles
}

// findCycle searches breadth first for the shortest path from start back
// to itself.
func findCycle(start string, left map[string][]string) []string {
	parent := map[string]string{}
	queue := []string{start}
	visited := map[string]bool{}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, next := range left[name] {
			if next == start {
				path := []string{start}
				for at := name; at != start; at = parent[at] {
					path = append(path, at)
				}
				path = append(path, start)
				for i, j := 1, len(path)-2; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = name
			queue = append(queue, next)
		}
	}
	return nil
}

func leftNames(rule *Rule, nullable map[string]bool) []string {
	var names []string
	for _, alt := range rule.Alternatives {
		for _, item := range alt {
			name, ok := item.(Name)
			if !ok {
				break
			}
			names = append(names, string(name))
			if !nullable[string(name)] {
				break
			}
		}
	}
	return names
}

func nullableRules(g *Grammar) map[string]bool {
	nullable := map[string]bool{}
	for changed := true; changed; {
		changed = false
		for _, rule := range g.Rules {
			if nullable[rule.Name] {
				continue
			}
			if rule.Nothing || anyNullable(rule.Alternatives, nullable) {
				nullable[rule.Name] = true
				changed = true
			}
		}
	}
	return nullable
}

func anyNullable(alts []Alternative, nullable map[string]bool) bool {
	for _, alt := range alts {
		all := true
		for _, item := range alt {
			name, ok := item.(Name)
			if !ok || !nullable[string(name)] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
