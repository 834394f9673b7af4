package model

import "time"

// HardestLimit は難問ランキングの件数
const HardestLimit = 5

type StatsTotals struct {
	Assignments    int        `json:"assignments"`
	Solved         int        `json:"solved"`
	Unsolved       int        `json:"unsolved"`
	AttemptsTotal  int        `json:"attemptsTotal"`
	LastSolvedAt   *time.Time `json:"lastSolvedAt"`
	LastAnsweredAt *time.Time `json:"lastAnsweredAt"`
}

type DomainStats struct {
	Domain   TermDomain `json:"domain"`
	Solved   int        `json:"solved"`
	Unsolved int        `json:"unsolved"`
}

type AttemptStat struct {
	AssignmentID uint       `json:"assignmentId"`
	TermID       uint       `json:"termId"`
	Question     string     `json:"question"`
	Attempts     int        `json:"attempts"`
	SolvedAt     *time.Time `json:"solvedAt,omitempty"`
}

type StatsResponse struct {
	User               string        `json:"user"`
	Points             int           `json:"points"`
	Totals             StatsTotals   `json:"totals"`
	ByDomain           []DomainStats `json:"byDomain"`
	HardestUnsolved    []AttemptStat `json:"hardestUnsolved"`
	MostAttemptsSolved []AttemptStat `json:"mostAttemptsSolved"`
}
