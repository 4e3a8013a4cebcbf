package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/models"
)

func (e *testEnv) counts(t *testing.T, reviewID uint) (int, int) {
	t.Helper()
	var review models.Review
	require.NoError(t, e.db.First(&review, reviewID).Error)
	return review.HelpfulCount, review.UnhelpfulCount
}

func TestVoteSwitchAndRepeat(t *testing.T) {
	env := newTestEnv(t)
	review := env.createReview(t, "PRODUCT", "P1", "U1", 4)

	// A votes helpful.
	require.NoError(t, env.helpfulness.Vote(review.ID, "A", true))
	helpful, unhelpful := env.counts(t, review.ID)
	assert.Equal(t, 1, helpful)
	assert.Equal(t, 0, unhelpful)

	// A switches to unhelpful.
	require.NoError(t, env.helpfulness.Vote(review.ID, "A", false))
	helpful, unhelpful = env.counts(t, review.ID)
	assert.Equal(t, 0, helpful)
	assert.Equal(t, 1, unhelpful)

	// A re-votes unhelpful: the replace runs but nets to zero.
	require.NoError(t, env.helpfulness.Vote(review.ID, "A", false))
	helpful, unhelpful = env.counts(t, review.ID)
	assert.Equal(t, 0, helpful)
	assert.Equal(t, 1, unhelpful)

	// Independent user B votes helpful.
	require.NoError(t, env.helpfulness.Vote(review.ID, "B", true))
	helpful, unhelpful = env.counts(t, review.ID)
	assert.Equal(t, 1, helpful)
	assert.Equal(t, 1, unhelpful)
}

func TestVoteKeepsOneLedgerRowPerUser(t *testing.T) {
	env := newTestEnv(t)
	review := env.createReview(t, "PRODUCT", "P1", "U1", 4)

	require.NoError(t, env.helpfulness.Vote(review.ID, "A", true))
	require.NoError(t, env.helpfulness.Vote(review.ID, "A", false))
	require.NoError(t, env.helpfulness.Vote(review.ID, "A", true))

	var votes []models.HelpfulnessVote
	require.NoError(t, env.db.Where("review_id = ? AND user_id = ?", review.ID, "A").
		Find(&votes).Error)
	require.Len(t, votes, 1)
	assert.True(t, votes[0].Helpful)
}

func TestVoteCountsMatchLedger(t *testing.T) {
	env := newTestEnv(t)
	review := env.createReview(t, "PRODUCT", "P1", "U1", 4)

	voters := map[string]bool{"A": true, "B": true, "C": false, "D": true, "E": false}
	for user, helpful := range voters {
		require.NoError(t, env.helpfulness.Vote(review.ID, user, helpful))
	}

	helpful, unhelpful := env.counts(t, review.ID)
	assert.Equal(t, 3, helpful)
	assert.Equal(t, 2, unhelpful)

	votes, err := env.helpfulness.VotesOf(review.ID)
	require.NoError(t, err)
	assert.Len(t, votes, len(voters))
}

func TestVoteRequiresActiveReview(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.helpfulness.Vote(42, "A", true), ErrNotFound)

	review := env.createReview(t, "PRODUCT", "P1", "U1", 4)
	require.NoError(t, env.reviews.DeleteReview(review.ID, "U1"))
	assert.ErrorIs(t, env.helpfulness.Vote(review.ID, "A", true), ErrNotFound)
}

func TestVoteHasNoAggregationImpact(t *testing.T) {
	env := newTestEnv(t)
	review := env.createReview(t, "PRODUCT", "P1", "U1", 4)

	require.NoError(t, env.helpfulness.Vote(review.ID, "A", true))

	summary, err := env.summaries.Get("PRODUCT", "P1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.AverageRating)
	assert.Equal(t, 1, summary.TotalReviews)
}
