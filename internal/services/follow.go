package services

import "context"

// Follow records callerID as a follower of targetID. Repeating it is a no-op.
func (s *AccountService) Follow(ctx context.Context, callerID, targetID string) error {
	target, err := parseID(targetID)
	if err != nil {
		return err
	}
	// Hex ids are case-insensitive, so compare the parsed values.
	if caller, err := parseID(callerID); err == nil && caller == target {
		return ErrSelfFollow
	}
	return s.store.AddFollower(ctx, target, callerID)
}

// Unfollow removes callerID from the followers of targetID if present.
func (s *AccountService) Unfollow(ctx context.Context, callerID, targetID string) error {
	target, err := parseID(targetID)
	if err != nil {
		return err
	}
	return s.store.RemoveFollower(ctx, target, callerID)
}
