package scene

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorld = `
agent:
  region: 1
regions:
  - handle: 1
    name: Ahern
  - handle: 2
    name: Morris
people:
  - id: 11111111-1111-1111-1111-111111111111
    name: Jane Resident
groups:
  - id: 22222222-2222-2222-2222-222222222222
    name: Builders
objects:
  - id: aaaaaaaa-0000-0000-0000-000000000001
    region: 1
    name: Alpha Box
    description: a plain cube
    owner: 11111111-1111-1111-1111-111111111111
    group: 22222222-2222-2222-2222-222222222222
    position: [128, 64, 22]
  - id: aaaaaaaa-0000-0000-0000-000000000002
    region: 2
    name: Beta Sphere
    root: false
`

var (
	alphaID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	betaID  = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
	janeID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	buildID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	w, err := ParseWorld([]byte(testWorld))
	require.NoError(t, err)
	sim := NewSimulator(w)
	t.Cleanup(sim.Close)
	return sim
}

func nextEvent(t *testing.T, sim *Simulator) Event {
	t.Helper()
	select {
	case ev := <-sim.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for simulator event")
		return nil
	}
}

func TestParseWorld(t *testing.T) {
	w, err := ParseWorld([]byte(testWorld))
	require.NoError(t, err)

	assert.Len(t, w.Objects, 2)
	assert.Equal(t, "Morris", w.RegionName(2))
	assert.Equal(t, RegionHandle(9).String(), w.RegionName(9))

	sim := NewSimulator(w)
	defer sim.Close()
	alpha, ok := sim.Find(alphaID)
	require.True(t, ok)
	assert.True(t, alpha.Root, "root defaults to true")
	assert.Equal(t, Vector{128, 64, 22}, alpha.Position)

	beta, ok := sim.Find(betaID)
	require.True(t, ok)
	assert.False(t, beta.Root)
}

func TestParseWorld_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "no regions", yaml: "agent: {region: 1}", want: "no regions"},
		{
			name: "undeclared agent region",
			yaml: "agent: {region: 3}\nregions: [{handle: 1}]",
			want: "agent region 3",
		},
		{
			name: "bad object id",
			yaml: "agent: {region: 1}\nregions: [{handle: 1}]\nobjects: [{id: nope, region: 1}]",
			want: "invalid id",
		},
		{
			name: "bad owner",
			yaml: "agent: {region: 1}\nregions: [{handle: 1}]\n" +
				"objects: [{id: aaaaaaaa-0000-0000-0000-000000000001, region: 1, owner: x}]",
			want: "invalid owner",
		},
		{
			name: "future format",
			yaml: "version: 2.0.0\nagent: {region: 1}\nregions: [{handle: 1}]",
			want: "unsupported world file version",
		},
		{
			name: "garbage version",
			yaml: "version: one\nagent: {region: 1}\nregions: [{handle: 1}]",
			want: "not a semantic version",
		},
		{
			name: "short position",
			yaml: "agent: {region: 1}\nregions: [{handle: 1}]\n" +
				"objects: [{id: aaaaaaaa-0000-0000-0000-000000000001, region: 1, position: [1, 2]}]",
			want: "position needs 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWorld([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseWorld_Version(t *testing.T) {
	for _, v := range []string{"1.0.0", "1.4", "1"} {
		w, err := ParseWorld([]byte("version: \"" + v + "\"\n" + testWorld))
		require.NoError(t, err, v)
		assert.Equal(t, v, w.Version)
	}

	_, err := ParseWorld([]byte("version: 0.9.0\n" + testWorld))
	require.ErrorIs(t, err, ErrWorldVersion)
}

func TestSimulator_PropertiesResponse(t *testing.T) {
	sim := newTestSimulator(t)

	require.NoError(t, sim.RequestObjectPropertiesFamily(context.Background(), alphaID))
	assert.Equal(t, 1, sim.Requests())

	ev := nextEvent(t, sim)
	props, ok := ev.(PropertiesFamily)
	require.True(t, ok, "expected PropertiesFamily, got %T", ev)
	assert.Equal(t, alphaID, props.ObjectID)
	assert.Equal(t, janeID, props.OwnerID)
	assert.Equal(t, buildID, props.GroupID)
	assert.Equal(t, "Alpha Box", props.Name)
	assert.Equal(t, "a plain cube", props.Description)
}

func TestSimulator_UnknownObjectIsDropped(t *testing.T) {
	sim := newTestSimulator(t)

	require.NoError(t, sim.RequestObjectPropertiesFamily(context.Background(), uuid.New()))
	select {
	case ev := <-sim.Events():
		t.Fatalf("unexpected event %s", ev.EventName())
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSimulator_NameCache(t *testing.T) {
	sim := newTestSimulator(t)

	_, ok := sim.FullName(janeID)
	assert.False(t, ok, "names are unknown until requested")

	sim.Request(janeID, false)
	ev := nextEvent(t, sim)
	resolved, ok := ev.(NameResolved)
	require.True(t, ok)
	assert.Equal(t, "Jane Resident", resolved.Name)
	assert.False(t, resolved.IsGroup)

	name, ok := sim.FullName(janeID)
	require.True(t, ok)
	assert.Equal(t, "Jane Resident", name)

	_, ok = sim.GroupName(buildID)
	assert.False(t, ok)
	sim.Request(buildID, true)
	nextEvent(t, sim)
	name, ok = sim.GroupName(buildID)
	require.True(t, ok)
	assert.Equal(t, "Builders", name)
}

func TestSimulator_TeleportAndRemove(t *testing.T) {
	sim := newTestSimulator(t)

	assert.Equal(t, RegionHandle(1), sim.Region())
	assert.Equal(t, RegionHandle(2), sim.TeleportNext())
	assert.Equal(t, RegionHandle(1), sim.TeleportNext())
	sim.Teleport(2)
	assert.Equal(t, RegionHandle(2), sim.Region())

	assert.True(t, sim.Remove(alphaID))
	assert.False(t, sim.Remove(alphaID))
	objs := sim.Objects()
	require.Len(t, objs, 1)
	assert.Equal(t, betaID, objs[0].ID)
	_, ok := sim.Find(betaID)
	assert.True(t, ok)
}

func TestSimulator_Tracker(t *testing.T) {
	sim := newTestSimulator(t)

	sim.TrackLocation(Vector{1, 2, 3}, "Alpha Box")
	sim.LookAt(alphaID)

	tracked := sim.Tracked()
	require.Len(t, tracked, 1)
	assert.Equal(t, TrackRequest{ObjectID: alphaID, Position: Vector{1, 2, 3}, Label: "Alpha Box"}, tracked[0])
}

func TestSimulator_ClosedRejectsRequests(t *testing.T) {
	sim := newTestSimulator(t)
	sim.Close()

	err := sim.RequestObjectPropertiesFamily(context.Background(), alphaID)
	require.ErrorIs(t, err, ErrSimulatorClosed)
}
