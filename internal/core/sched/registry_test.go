package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseBucketsOrderMaintainedIncrementally(t *testing.T) {
	pb := newPhaseBuckets()
	a, b, c := &fakeTickable{}, &fakeTickable{}, &fakeTickable{}

	require.True(t, pb.add(20, a))
	require.True(t, pb.add(5, b))
	require.True(t, pb.add(10, c))

	assert.Equal(t, []int{5, 10, 20}, pb.order)
	assert.Equal(t, 3, pb.count())
}

func TestPhaseBucketsDuplicateAddRejected(t *testing.T) {
	pb := newPhaseBuckets()
	u := &fakeTickable{}

	require.True(t, pb.add(5, u))
	assert.False(t, pb.add(5, u))
	assert.False(t, pb.add(9, u), "same unit cannot occupy two buckets in one phase")
	assert.Equal(t, 1, pb.count())
	assert.Len(t, pb.buckets[5].units, 1)
}

func TestPhaseBucketsEmptyBucketDropped(t *testing.T) {
	pb := newPhaseBuckets()
	a, b := &fakeTickable{}, &fakeTickable{}
	pb.add(5, a)
	pb.add(5, b)
	pb.add(10, &fakeTickable{})

	require.True(t, pb.remove(a))
	assert.Equal(t, []int{5, 10}, pb.order, "bucket with an occupant survives")

	require.True(t, pb.remove(b))
	assert.Equal(t, []int{10}, pb.order, "emptied bucket dropped immediately")
	assert.Nil(t, pb.buckets[5])
}

func TestPhaseBucketsRemoveAbsent(t *testing.T) {
	pb := newPhaseBuckets()
	assert.False(t, pb.remove(&fakeTickable{}))
}

func TestRegistryCountsAndPriorityUnion(t *testing.T) {
	r := newRegistry()
	r.phase(PhaseStandard).add(5, &fakeTickable{})
	r.phase(PhaseStandard).add(20, &fakeTickable{})
	r.phase(PhaseFixed).add(5, &fakeFixed{})
	r.phase(PhaseLate).add(7, &fakeLate{})

	assert.Equal(t, 4, r.registered())
	assert.Equal(t, []int{5, 7, 20}, r.priorities())

	r.clear()
	assert.Equal(t, 0, r.registered())
	assert.Empty(t, r.priorities())
}
