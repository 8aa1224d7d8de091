package searcher

// Scores for decided positions, from the searching player's point of view

const WinScore = 1000.0
const LossScore = -WinScore
const DrawScore = 0.0
