package points

import (
	"fmt"
	"math"
)

// ===========================
// PointsAmount 積分數量
// ===========================

// PointsAmount 積分數量值對象（不可變、自我驗證，>= 0）
type PointsAmount struct {
	value int64
}

// NewPointsAmount 建構函數（checked 版本）
func NewPointsAmount(value int64) (PointsAmount, error) {
	if value < 0 {
		return PointsAmount{}, fmt.Errorf(
			"%w: attempted to create PointsAmount with value %d",
			ErrNegativePointsAmount,
			value,
		)
	}
	return PointsAmount{value: value}, nil
}

// newPointsAmountUnchecked 內部建構函數，調用者保證 value >= 0
func newPointsAmountUnchecked(value int64) PointsAmount {
	return PointsAmount{value: value}
}

// Value 獲取積分數量
func (p PointsAmount) Value() int64 {
	return p.value
}

// Add 相加（返回新的 PointsAmount）
//
// 兩個非負數相加只可能向上溢位，溢位時返回 ErrPointsOverflow。
func (p PointsAmount) Add(other PointsAmount) (PointsAmount, error) {
	if other.value > math.MaxInt64-p.value {
		return PointsAmount{}, ErrPointsOverflow.WithContext(
			"current", p.value,
			"delta", other.value,
		)
	}
	return newPointsAmountUnchecked(p.value + other.value), nil
}

// Equals 比較兩個 PointsAmount 是否相等
func (p PointsAmount) Equals(other PointsAmount) bool {
	return p.value == other.value
}

// GreaterThan 判斷是否大於另一個 PointsAmount
func (p PointsAmount) GreaterThan(other PointsAmount) bool {
	return p.value > other.value
}

// ===========================
// GrantAmount 單次發放數量
// ===========================

const (
	MinGrantPoints = 1
	MaxGrantPoints = 1000
)

// GrantAmount 單次發放的積分數量，保證在 [MinGrantPoints, MaxGrantPoints]
type GrantAmount struct {
	value int64
}

// NewGrantAmount 建立發放數量
func NewGrantAmount(value int64) (GrantAmount, error) {
	if value < MinGrantPoints || value > MaxGrantPoints {
		return GrantAmount{}, ErrGrantAmountOutOfRange.WithContext(
			"value", value,
			"min", MinGrantPoints,
			"max", MaxGrantPoints,
		)
	}
	return GrantAmount{value: value}, nil
}

// Value 獲取數量
func (g GrantAmount) Value() int64 {
	return g.value
}

// Points 轉為 PointsAmount 以便累加
func (g GrantAmount) Points() PointsAmount {
	return newPointsAmountUnchecked(g.value)
}

// ===========================
// Balance 餘額快照
// ===========================

// Balance 帳戶三個餘額欄位的快照
type Balance struct {
	Points               int64
	TotalPointsObtained  int64
	TotalPointsRemaining int64
}
