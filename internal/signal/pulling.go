package signal

// 拉号（jalador）是民间玩法里的固定算术分组：n、n+25、n+50、n+75（mod 100）
// 同组号码互为"拉号搭档"。这是组合关系不是统计结论，仅作为打分的不透明输入

// GetGroup 返回号码所在的完整拉号组（4 个，升序，含自身）
func GetGroup(number int) []int {
	base := number % 25
	if base < 0 {
		base += 25
	}
	return []int{base, base + 25, base + 50, base + 75}
}

// GetPullingNumbers 返回号码的 3 个拉号搭档（不含自身）
func GetPullingNumbers(number int) []int {
	partners := make([]int, 0, 3)
	for _, n := range GetGroup(number) {
		if n != number {
			partners = append(partners, n)
		}
	}
	return partners
}

// IsPullingPair 两个号码是否互为拉号搭档（对称关系）
func IsPullingPair(a, b int) bool {
	if a == b {
		return false
	}
	if a < 0 || a >= NumberSpace || b < 0 || b >= NumberSpace {
		return false
	}
	return a%25 == b%25
}
