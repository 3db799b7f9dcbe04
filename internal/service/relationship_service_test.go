package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func newRelTest(t *testing.T) (*RelationshipService, *memUserRepo, *capturingNotifier) {
	t.Helper()
	users := newMemUserRepo()
	notifier := &capturingNotifier{}
	return NewRelationshipService(users, notifier, testLogger()), users, notifier
}

func TestFollowCreatesSymmetricEdge(t *testing.T) {
	svc, users, notifier := newRelTest(t)
	alice := users.add(t, "alice")
	bob := users.add(t, "bob")

	require.NoError(t, svc.Follow(context.Background(), alice.ID, bob.ID))

	assert.True(t, users.users[alice.ID].IsFollowing(bob.ID))
	assert.True(t, users.users[bob.ID].IsFollowedBy(alice.ID))
	// the reverse edge must not appear
	assert.False(t, users.users[bob.ID].IsFollowing(alice.ID))

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "follow.new", notifier.calls[0].event)
	assert.Equal(t, bob.ID, notifier.calls[0].userID)
}

func TestFollowRejections(t *testing.T) {
	svc, users, _ := newRelTest(t)
	alice := users.add(t, "alice")
	bob := users.add(t, "bob")

	err := svc.Follow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfRelation)

	err = svc.Follow(context.Background(), alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, svc.Follow(context.Background(), alice.ID, bob.ID))
	err = svc.Follow(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
}

func TestFollowBlockedPair(t *testing.T) {
	svc, users, _ := newRelTest(t)
	alice := users.add(t, "alice")
	bob := users.add(t, "bob")

	// bob blocked alice: alice cannot follow bob
	users.users[bob.ID].Blocked = []uuid.UUID{alice.ID}
	err := svc.Follow(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrBlockedByTarget)

	// alice blocked bob: alice cannot follow bob either
	users.users[bob.ID].Blocked = nil
	users.users[alice.ID].Blocked = []uuid.UUID{bob.ID}
	err = svc.Follow(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrTargetBlocked)
}

func TestUnfollowRoundTrip(t *testing.T) {
	svc, users, _ := newRelTest(t)
	alice := users.add(t, "alice")
	bob := users.add(t, "bob")

	require.NoError(t, svc.Follow(context.Background(), alice.ID, bob.ID))
	require.NoError(t, svc.Unfollow(context.Background(), alice.ID, bob.ID))

	assert.False(t, users.users[alice.ID].IsFollowing(bob.ID))
	assert.False(t, users.users[bob.ID].IsFollowedBy(alice.ID))

	err := svc.Unfollow(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestBlockSeversFollowBothDirections(t *testing.T) {
	svc, users, _ := newRelTest(t)
	alice := users.add(t, "alice")
	bob := users.add(t, "bob")

	require.NoError(t, svc.Follow(context.Background(), alice.ID, bob.ID))
	require.NoError(t, svc.Follow(context.Background(), bob.ID, alice.ID))

	require.NoError(t, svc.Block(context.Background(), alice.ID, bob.ID))

	assert.True(t, users.users[alice.ID].HasBlocked(bob.ID))
	assert.False(t, users.users[alice.ID].IsFollowing(bob.ID))
	assert.False(t, users.users[bob.ID].IsFollowing(alice.ID))
	assert.Empty(t, users.users[alice.ID].Followers)
	assert.Empty(t, users.users[bob.ID].Followers)

	err := svc.Block(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyBlocked)
}

func TestBlockSeverFailureLeavesNoBlock(t *testing.T) {
	svc, users, _ := newRelTest(t)
	alice := users.add(t, "alice")
	bob := users.add(t, "bob")

	require.NoError(t, svc.Follow(context.Background(), bob.ID, alice.ID))

	users.removeFollowErr = errors.New("write failed")
	err := svc.Block(context.Background(), alice.ID, bob.ID)
	require.Error(t, err)

	// the failed sever must not leave a half-applied block behind
	assert.False(t, users.users[alice.ID].HasBlocked(bob.ID))

	// once the store recovers, the same call goes through cleanly
	users.removeFollowErr = nil
	require.NoError(t, svc.Block(context.Background(), alice.ID, bob.ID))
	assert.True(t, users.users[alice.ID].HasBlocked(bob.ID))
	assert.False(t, users.users[bob.ID].IsFollowing(alice.ID))
	assert.False(t, users.users[alice.ID].IsFollowedBy(bob.ID))
}

func TestUnblockDoesNotRestoreFollows(t *testing.T) {
	svc, users, _ := newRelTest(t)
	alice := users.add(t, "alice")
	bob := users.add(t, "bob")

	require.NoError(t, svc.Follow(context.Background(), alice.ID, bob.ID))
	require.NoError(t, svc.Block(context.Background(), alice.ID, bob.ID))
	require.NoError(t, svc.Unblock(context.Background(), alice.ID, bob.ID))

	assert.False(t, users.users[alice.ID].HasBlocked(bob.ID))
	assert.False(t, users.users[alice.ID].IsFollowing(bob.ID), "unblock must not restore severed follows")

	err := svc.Unblock(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotBlocked)
}

func TestUnblockAllowsFollowAgain(t *testing.T) {
	svc, users, _ := newRelTest(t)
	alice := users.add(t, "alice")
	bob := users.add(t, "bob")

	require.NoError(t, svc.Block(context.Background(), alice.ID, bob.ID))
	require.NoError(t, svc.Unblock(context.Background(), alice.ID, bob.ID))

	require.NoError(t, svc.Follow(context.Background(), alice.ID, bob.ID))
	assert.True(t, users.users[alice.ID].IsFollowing(bob.ID))
}
