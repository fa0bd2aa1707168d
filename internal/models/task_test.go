package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskAssignmentHelpers(t *testing.T) {
	assignee := uint(7)
	pending := AssignmentStatusPending
	task := Task{AssigneeID: &assignee, AssignmentStatus: &pending}

	require.True(t, task.IsAssignee(7))
	require.False(t, task.IsAssignee(8))
	require.True(t, task.AssignmentIs(AssignmentStatusPending))
	require.False(t, task.AssignmentIs(AssignmentStatusAccepted))

	var unassigned Task
	require.False(t, unassigned.IsAssignee(0))
	require.False(t, unassigned.AssignmentIs(AssignmentStatusPending))
}
