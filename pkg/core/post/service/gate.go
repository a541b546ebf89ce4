package service

import "dofe-blog/pkg/core/post/model"

// Principal is whoever is making the request; session.Session implements it.
type Principal interface {
	CurrentUserID() (int64, bool)
}

// CanMutate permits a change only when an authenticated principal owns the post.
func CanMutate(principal Principal, post *model.Post) bool {
	if principal == nil || post == nil {
		return false
	}
	userID, ok := principal.CurrentUserID()
	return ok && userID == post.UserID
}
