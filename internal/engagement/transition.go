// Package engagement 描述点赞/点踩与订阅关系的状态迁移，不依赖任何存储
package engagement

import "fmt"

// Polarity 点赞极性：+1 点赞，-1 点踩
type Polarity int8

const (
	Like    Polarity = 1
	Dislike Polarity = -1
)

// Valid 判断是否为合法极性
func (p Polarity) Valid() bool {
	return p == Like || p == Dislike
}

func (p Polarity) String() string {
	switch p {
	case Like:
		return "like"
	case Dislike:
		return "dislike"
	default:
		return fmt.Sprintf("polarity(%d)", int8(p))
	}
}

// Action 关系行需要执行的存储动作
type Action int

const (
	Insert Action = iota + 1
	Delete
	Update
)

func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Update:
		return "update"
	default:
		return "unknown"
	}
}

// Decide 根据当前极性（nil 表示没有记录）和请求的极性给出存储动作：
// 无记录插入，同极性删除（取消），反极性原地更新
func Decide(current *Polarity, desired Polarity) Action {
	switch {
	case current == nil:
		return Insert
	case *current == desired:
		return Delete
	default:
		return Update
	}
}

// After 返回执行 Decide 之后该用户对视频的极性，0 表示中立
func After(current *Polarity, desired Polarity) Polarity {
	if Decide(current, desired) == Delete {
		return 0
	}
	return desired
}

// ToggleSubscription 订阅关系只有两种状态，存在即删除，不存在即插入
func ToggleSubscription(exists bool) Action {
	if exists {
		return Delete
	}
	return Insert
}
