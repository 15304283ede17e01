// 指示: miu200521358
package chainmap

import "testing"

func TestIsNameMatching(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		{from: "Root", to: "root", want: true},
		{from: "root_motion", to: "root", want: false},
		{from: "Hips", to: "pelvis", want: true},
		{from: "Spine", to: "spine_02", want: true},
		{from: "LeftUpperLeg", to: "thigh_l", want: true},
		{from: "RightUpperLeg", to: "thigh_l", want: false},
		{from: "LowerLeg_L", to: "lowerleg.l", want: true},
		{from: "UpperLeg_L", to: "lowerleg.l", want: false},
		{from: "Shoulder_R", to: "clavicle_r", want: true},
		{from: "UpperArm_R", to: "upperarm right", want: true},
		{from: "ForeArm_L", to: "lowerarm_l", want: true},
		{from: "Hand_L", to: "hand_r", want: false},
		{from: "Index_R", to: "index_r", want: true},
		{from: "Neck", to: "head", want: false},
		{from: "Tail", to: "tail", want: true},
		{from: "Weapon", to: "gun", want: false},
	}
	for _, tc := range cases {
		if got := IsNameMatching(tc.from, tc.to); got != tc.want {
			t.Fatalf("match mismatch: from=%s to=%s got=%v want=%v", tc.from, tc.to, got, tc.want)
		}
	}
}
