package model

import "encoding/json"

// VoteStatus 某个会话对 (用例, 模型) 的投票方向，空串表示未投票
type VoteStatus string

const (
	VoteNone VoteStatus = ""
	VoteUp   VoteStatus = "up"
	VoteDown VoteStatus = "down"
)

// ParseDirection 解析投票方向，只接受 up / down
func ParseDirection(s string) (VoteStatus, bool) {
	switch VoteStatus(s) {
	case VoteUp, VoteDown:
		return VoteStatus(s), true
	}
	return VoteNone, false
}

// ParseVoteStatus 解析会话中保存的状态，未知值视为未投票
func ParseVoteStatus(s string) VoteStatus {
	if d, ok := ParseDirection(s); ok {
		return d
	}
	return VoteNone
}

// MarshalJSON 未投票序列化为 null
func (s VoteStatus) MarshalJSON() ([]byte, error) {
	if s == VoteNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// VoteAction 一次投票操作的类型
type VoteAction string

const (
	VoteActionNew    VoteAction = "new"
	VoteActionSwitch VoteAction = "switch"
	VoteActionUndo   VoteAction = "undo"
)

// VoteDelta 对计数器的修改量，负数表示减一（落库时下限为 0）
type VoteDelta struct {
	Upvotes   int
	Downvotes int
}

// ResolveVote 切换语义：与上次方向相同为撤销；否则新增本方向，
// 若上次为反方向则同时撤销反方向。最多只减一个计数器。
func ResolveVote(direction, prior VoteStatus) (VoteStatus, VoteDelta, VoteAction) {
	var delta VoteDelta
	if prior == direction {
		bump(&delta, direction, -1)
		return VoteNone, delta, VoteActionUndo
	}

	bump(&delta, direction, 1)
	action := VoteActionNew
	if prior != VoteNone {
		bump(&delta, prior, -1)
		action = VoteActionSwitch
	}
	return direction, delta, action
}

func bump(d *VoteDelta, dir VoteStatus, n int) {
	switch dir {
	case VoteUp:
		d.Upvotes += n
	case VoteDown:
		d.Downvotes += n
	}
}
