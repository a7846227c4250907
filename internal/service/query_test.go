package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryService_ListAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty before any submission", func(t *testing.T) {
		t.Parallel()
		entries, err := newFixture(t).query.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("one entry per submission with attendee name", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		const n = 5
		for i := 0; i < n; i++ {
			attendee := f.register(t, fmt.Sprintf("Attendee %d", i), fmt.Sprintf("a%d@x.com", i))
			_, err := f.submission.Submit(ctx, validSubmission(attendee.ID.Hex()))
			require.NoError(t, err)
		}
		// Registered but silent attendees do not appear.
		f.register(t, "Quiet", "quiet@x.com")

		entries, err := f.query.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, entries, n)
		for i, entry := range entries {
			assert.Equal(t, fmt.Sprintf("Attendee %d", i), entry.Attendee.Name)
			assert.Equal(t, entry.AttendeeID, entry.Attendee.ID)
		}

		again, err := f.query.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, entries, again)
	})
}
