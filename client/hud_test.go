package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectHUDWithoutSnapshotHasNoRoom(t *testing.T) {
	hud := ProjectHUD(nil, nil)
	assert.Empty(t, hud.RoomProgress)
	assert.Empty(t, hud.RoomTitle)
	assert.Equal(t, "You: -", hud.RoleCard)
}

func TestProjectHUDDefaults(t *testing.T) {
	for name, snap := range map[string]*Snapshot{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			hud := ProjectHUD(snap, nil)
			if snap != nil {
				assert.Equal(t, "Room 1/5", hud.RoomProgress)
				assert.Equal(t, "Double Pressure Plates", hud.RoomTitle)
			}
			assert.Equal(t, "You: -", hud.RoleCard)
			assert.Empty(t, hud.RoleDesc)
			assert.Empty(t, hud.Roster)
			assert.Empty(t, hud.Fragments)
			assert.Empty(t, hud.Messages)
			assert.False(t, hud.CanSubmit)
		})
	}
}

func TestProjectHUDFromSnapshot(t *testing.T) {
	snap := &Snapshot{
		ServerTick: 50,
		RoomIndex:  1,
		Players: []Player{
			{ID: 1, Role: RoleGuardian, Ready: true},
			{ID: 2, Role: RoleScholar},
		},
		Messages: []Message{
			{T: 40, Kind: MsgChat, PlayerID: 2, Text: "WAIT"},
			{T: 41, Kind: MsgChat, PlayerID: 1, Text: "GO"},
			{T: 42, Kind: MsgPing, Text: "PING"},
			{T: 43, Kind: MsgSystem, Text: "Door opened."},
			{T: 44, Kind: MsgChat, PlayerID: 1, Text: "DANCE"},
		},
		UI: UIState{
			RoomCount:   5,
			PrivateHint: "The second digit is 7.",
			Fragments:   []Fragment{{Hint: 1}, {Hint: 2, Awarded: true, Frag: "7"}},
			CanSubmit:   true,
		},
	}
	me := &Identity{PlayerID: 2, Role: RoleScholar, RoomCode: "ABCD"}
	hud := ProjectHUD(snap, me)

	assert.Equal(t, "Room 2/5", hud.RoomProgress)
	assert.Equal(t, "Hidden Code Puzzle", hud.RoomTitle)
	assert.Equal(t, "You are Scholar", hud.RoleCard)
	assert.Equal(t, "Agile: reads clues, activates switches.", hud.RoleDesc)
	assert.Equal(t, "#2ea043", hud.RoleColor)

	assert.Equal(t, []RosterRow{
		{Label: "P1 - Guardian", Ready: true},
		{Label: "P2 - Scholar (you)", You: true},
	}, hud.Roster)
	assert.Equal(t, "READY", hud.Roster[0].State())
	assert.Equal(t, "NOT READY", hud.Roster[1].State())
	assert.Equal(t, []FragmentRow{{Text: "[1] ??"}, {Text: "[2] 7", Awarded: true}}, hud.Fragments)
	assert.Equal(t, []string{
		"(Hint) The second digit is 7.",
		"You: Wait!",
		"P1: Go!",
		"Ping: PING",
		"Door opened.",
		"P1: DANCE",
	}, hud.Messages)
	assert.True(t, hud.CanSubmit)
}

func TestProjectHUDUnknownRoleAndRoom(t *testing.T) {
	snap := &Snapshot{RoomIndex: 7, Players: []Player{{ID: 3, Role: "bard"}}}
	hud := ProjectHUD(snap, &Identity{PlayerID: 3, Role: "bard"})
	assert.Equal(t, "Room 8/5", hud.RoomProgress)
	assert.Equal(t, "Room 8", hud.RoomTitle)
	assert.Equal(t, "You: -", hud.RoleCard)
	assert.Equal(t, "P3 - bard (you)", hud.Roster[0].Label)
}

func TestQuickChatText(t *testing.T) {
	assert.Equal(t, "On plate", ChatLabel("ON_PLATE"))
	assert.Equal(t, "STEP ON\nTHE PLATE!", BubbleText("ON_PLATE"))
	assert.Equal(t, "CUSTOM", ChatLabel("CUSTOM"))

	long := strings.Repeat("é", 40)
	assert.Equal(t, strings.Repeat("é", 28), BubbleText(long))
	assert.Len(t, QuickChatPresets, 6)
	for _, p := range QuickChatPresets {
		_, ok := quickChatLabels[p]
		assert.True(t, ok, "preset %s has a label", p)
	}
}

func TestNormalizeRoomCodeAndReadyLabel(t *testing.T) {
	assert.Equal(t, "ABCD", NormalizeRoomCode("  abCd "))
	assert.Equal(t, "Ready", ReadyLabel(false))
	assert.Equal(t, "Unready", ReadyLabel(true))
}
