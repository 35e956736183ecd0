package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/petshop-next/internal/models"
)

// 用户被禁用后最迟在该时间内失效
const authStateCacheTTL = 10 * time.Minute

// UserAuthState 令牌校验用的用户状态快照
type UserAuthState struct {
	UserID    uint   `json:"user_id"`
	Status    string `json:"status"`
	UpdatedAt int64  `json:"updated_at"`
}

func userAuthStateKey(userID uint) string {
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}

// BuildUserAuthState 从用户模型生成快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{UserID: user.ID, Status: user.Status, UpdatedAt: time.Now().Unix()}
}

// GetUserAuthState 读取快照；第二个返回值表示是否命中
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	state := &UserAuthState{}
	hit, err := GetJSON(ctx, userAuthStateKey(userID), state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return state, true, nil
}

// SetUserAuthState 写入快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, userAuthStateKey(state.UserID), state, authStateCacheTTL)
}
