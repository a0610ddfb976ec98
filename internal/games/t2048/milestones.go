// Package t2048 models the 2048 board: tile exponents, the four moves built on
// a single merge-left primitive, the random spawn distribution, and the two
// turn roles (decision and chance) a board alternates between.
package t2048

// Milestone is a named tile target tracked while a game is played.
type Milestone struct {
	ID       int
	Name     string
	Exponent uint8 // target tile is 2^Exponent
}

// Target returns the displayed value of the milestone tile.
func (m Milestone) Target() int {
	return TileValue(m.Exponent)
}

// Milestones lists the tracked targets in increasing order.
var Milestones = []Milestone{
	{ID: 1, Name: "Warm-up", Exponent: 7},         // 128
	{ID: 2, Name: "Getting Started", Exponent: 8}, // 256
	{ID: 3, Name: "Building Momentum", Exponent: 9},
	{ID: 4, Name: "The Climb", Exponent: 10},
	{ID: 5, Name: "Classic 2048", Exponent: 11},
	{ID: 6, Name: "Beyond Limits", Exponent: 12},
	{ID: 7, Name: "Master Class", Exponent: 13}, // 8192
}

// MilestoneCount returns the number of tracked milestones.
func MilestoneCount() int {
	return len(Milestones)
}

// MilestoneTargets returns the displayed targets of all milestones.
func MilestoneTargets() []int {
	targets := make([]int, len(Milestones))
	for i, m := range Milestones {
		targets[i] = m.Target()
	}
	return targets
}

// MilestonesReached returns how many milestones the board has already met.
func MilestonesReached(b Board) int {
	maxExp := b.MaxExponent()
	n := 0
	for _, m := range Milestones {
		if maxExp < m.Exponent {
			break
		}
		n++
	}
	return n
}
