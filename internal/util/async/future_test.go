package async

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGo_Resolves(t *testing.T) {
	t.Parallel()
	f := Go(context.Background(), func(_ context.Context) (string, error) {
		return "ok", nil
	})

	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestGo_Rejects(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	f := Go(context.Background(), func(_ context.Context) (int, error) {
		return 0, boom
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, boom)
}

func TestGo_PanicRejects(t *testing.T) {
	t.Parallel()
	f := Go(context.Background(), func(_ context.Context) (int, error) {
		panic("bad")
	})

	_, err := f.Await()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: bad")
}

func TestResolvedAndRejected(t *testing.T) {
	t.Parallel()
	v, err := Resolved(42).Await()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	boom := errors.New("boom")
	_, err = Rejected[int](boom).Await()
	assert.ErrorIs(t, err, boom)

	_, err = Rejected[int](nil).Await()
	assert.Error(t, err)
}

func TestFuture_Done(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	f := Go(context.Background(), func(_ context.Context) (int, error) {
		<-release
		return 1, nil
	})

	select {
	case <-f.Done():
		t.Fatal("future resolved before release")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("future did not resolve")
	}
}

func TestAny(t *testing.T) {
	t.Parallel()
	v, err := Any(Resolved("x")).Await()
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	boom := errors.New("boom")
	_, err = Any(Rejected[string](boom)).Await()
	assert.ErrorIs(t, err, boom)
}

func TestSettle_WaitsForAllInOrder(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	slow := Go(context.Background(), func(_ context.Context) (string, error) {
		time.Sleep(40 * time.Millisecond)
		return "slow", nil
	})

	outcomes := Settle([]*Future[string]{
		Rejected[string](boom),
		slow,
		nil,
		Resolved("fast"),
	})

	require.Len(t, outcomes, 4)
	assert.ErrorIs(t, outcomes[0].Err, boom)
	assert.Equal(t, "slow", outcomes[1].Value)
	assert.Equal(t, Outcome[string]{}, outcomes[2])
	assert.Equal(t, "fast", outcomes[3].Value)
}

func TestAwaitAll(t *testing.T) {
	t.Parallel()

	t.Run("all resolve", func(t *testing.T) {
		t.Parallel()
		values, err := AwaitAll([]*Future[int]{Resolved(1), Resolved(2)})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, values)
	})

	t.Run("rejections are joined", func(t *testing.T) {
		t.Parallel()
		e1 := errors.New("e1")
		e2 := errors.New("e2")
		values, err := AwaitAll([]*Future[int]{Rejected[int](e1), Resolved(2), Rejected[int](e2)})
		assert.Nil(t, values)
		assert.ErrorIs(t, err, e1)
		assert.ErrorIs(t, err, e2)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		values, err := AwaitAll[int](nil)
		require.NoError(t, err)
		assert.Empty(t, values)
	})
}
