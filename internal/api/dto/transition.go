package dto

import (
	"github.com/gradeflow/gradeflow/internal/domain/transition"
)

type TransitionResponse struct {
	*transition.Transition

	FromGradeName string `json:"from_grade_name,omitempty"`
	ToGradeName   string `json:"to_grade_name,omitempty"`
}

type ListTransitionsResponse struct {
	Transitions []*TransitionResponse `json:"transitions"`
	Total       int                   `json:"total"`
}
