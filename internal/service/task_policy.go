package service

import (
	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/util"
)

// TaskPolicy is the single decision point for task authorization.
// Every handler goes through here instead of re-deriving the
// admin/owner/public rules inline.
type TaskPolicy struct{}

func NewTaskPolicy() *TaskPolicy {
	return &TaskPolicy{}
}

// CanRead decides direct single-task lookups. Public tasks are
// admin-only on direct fetch even though they appear in list queries
// for everyone; that asymmetry is deliberate product behavior and
// must not be "fixed" here.
func (p *TaskPolicy) CanRead(requester *util.Claims, task *model.Task) bool {
	if requester.IsAdmin() {
		return true
	}
	if task.IsPublic {
		return false
	}
	return task.CreatedBy == requester.Email
}

// CanWrite decides updates. Admins may modify any task; a private
// task may additionally be modified by its creator.
func (p *TaskPolicy) CanWrite(requester *util.Claims, task *model.Task) bool {
	if requester.IsAdmin() {
		return true
	}
	return !task.IsPublic && task.CreatedBy == requester.Email
}

// CanDelete follows the same ownership rules as CanWrite.
func (p *TaskPolicy) CanDelete(requester *util.Claims, task *model.Task) bool {
	return p.CanWrite(requester, task)
}

// CreateDefaults resolves visibility and ownership for a new task.
// When the caller leaves isPublic unset, admins create public tasks
// and everyone else creates private ones. Public tasks authored by an
// admin belong to nobody.
func (p *TaskPolicy) CreateDefaults(requester *util.Claims, isPublic *bool) (public bool, createdBy string) {
	if isPublic != nil {
		public = *isPublic
	} else {
		public = requester.IsAdmin()
	}

	if public && requester.IsAdmin() {
		createdBy = model.CreatedByNA
	} else {
		createdBy = requester.Email
	}
	return public, createdBy
}
