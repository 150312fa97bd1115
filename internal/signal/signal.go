// Package signal 提供对历史号码序列的纯统计信号计算（无 I/O）
package signal

// NumberSpace 号码空间大小（0-99）
const NumberSpace = 100

// DefaultAlpha EWMA 默认衰减系数
const DefaultAlpha = 0.3

// DefaultExpectedRate CUSUM 默认期望出现率（均匀假设）
const DefaultExpectedRate = 1.0 / float64(NumberSpace)

// EWMA 对按时间正序排列的号码序列逐期应用递推
// w[n] = alpha*[本期开出n] + (1-alpha)*w[n]，结果是按近因加权的出现频率向量
func EWMA(seq []int, alpha float64) [NumberSpace]float64 {
	var w [NumberSpace]float64
	for _, n := range seq {
		if n < 0 || n >= NumberSpace {
			continue
		}
		for i := range w {
			w[i] *= 1 - alpha
		}
		w[n] += alpha
	}
	return w
}

// DigitMatrices 十位、个位两个相互独立的 10×10 数字转移矩阵
type DigitMatrices struct {
	Tens  [10][10]float64
	Units [10][10]float64
}

// DigitMarkov 统计相邻两期的十位/个位转移并按行归一化
// 某数字从未作为前态出现时对应行保持全 0（不会出现 NaN）
func DigitMarkov(seq []int) DigitMatrices {
	var m DigitMatrices
	for i := 1; i < len(seq); i++ {
		prev, cur := seq[i-1], seq[i]
		if prev < 0 || prev >= NumberSpace || cur < 0 || cur >= NumberSpace {
			continue
		}
		m.Tens[prev/10][cur/10]++
		m.Units[prev%10][cur%10]++
	}
	normalizeRows(&m.Tens)
	normalizeRows(&m.Units)
	return m
}

func normalizeRows(matrix *[10][10]float64) {
	for i := range matrix {
		var sum float64
		for j := range matrix[i] {
			sum += matrix[i][j]
		}
		if sum == 0 {
			continue
		}
		for j := range matrix[i] {
			matrix[i][j] /= sum
		}
	}
}

// JointProb 给定上一期号码时候选号码的联合概率
// 十位与个位按独立假设相乘，用于缓解两位数直接建模的稀疏问题，并非真实联合分布
func (m DigitMatrices) JointProb(prev, candidate int) float64 {
	if prev < 0 || prev >= NumberSpace || candidate < 0 || candidate >= NumberSpace {
		return 0
	}
	return m.Tens[prev/10][candidate/10] * m.Units[prev%10][candidate%10]
}

// CUSUM 每个号码对 (出现指示 - 期望率) 的累计和
// 持续为正说明开出偏多（热），深度为负说明长期未开（冷/该出）
func CUSUM(seq []int, expectedRate float64) [NumberSpace]float64 {
	var s [NumberSpace]float64
	for _, n := range seq {
		if n < 0 || n >= NumberSpace {
			continue
		}
		for i := range s {
			s[i] -= expectedRate
		}
		s[n] += 1
	}
	return s
}
