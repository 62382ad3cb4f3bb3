package auth

import "github.com/prn-tf/chronicle/internal/domain"

// Authorize decides whether the acting user may mutate the target blog.
// It is pure decision logic with no side effects.
//
// Outcomes:
//   - ErrBlogGone when the target does not exist; callers translate this to
//     a no-op success for delete and a not-found error for update
//   - ErrNoActingUser when the request is unauthenticated; this is checked
//     before ownership so anonymous callers are never told whether the
//     resource exists under someone else's ownership
//   - ErrNotOwner when the acting user is not the blog's owner
//   - nil when the mutation is allowed
func Authorize(actor *domain.User, blog *domain.Blog) error {
	if blog == nil {
		return ErrBlogGone
	}
	if actor == nil {
		return ErrNoActingUser
	}
	if actor.ID != blog.UserID {
		return ErrNotOwner
	}
	return nil
}
