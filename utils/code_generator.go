package utils

import (
	"crypto/rand"
	mathrand "math/rand"
	"strconv"
	"sync/atomic"
	"time"
)

// 字符集常量
const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// 全局原子计数器，用于确保生成的标识唯一
var idCounter int64

// GenerateRandomCode 生成指定长度的随机字符码
func GenerateRandomCode(length int) string {
	code := make([]byte, length)

	// 使用安全的随机数生成
	_, err := rand.Read(code)
	if err != nil {
		// 如果安全随机数生成失败，回退到不安全的方法
		// 创建一个新的随机数生成器实例，而不是使用全局的Seed
		r := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
		for i := range code {
			code[i] = charset[r.Intn(len(charset))]
		}
		return string(code)
	}

	// 将随机字节映射到字符集
	for i := range code {
		code[i] = charset[int(code[i])%len(charset)]
	}

	return string(code)
}

// GenerateReferralCode 生成随机推广码
// 8位大写字母数字，满足推广码3-20位的格式要求
func GenerateReferralCode() string {
	return GenerateRandomCode(8)
}

// GenerateInfluencerID 生成推广达人唯一标识
// 基于纳秒时间戳，在预期的调用频率下碰撞概率可以忽略
// 使用原子计数器和4位随机字符进一步保证唯一性
func GenerateInfluencerID() string {
	counter := atomic.AddInt64(&idCounter, 1)
	randomPart := GenerateRandomCode(4)
	return strconv.FormatInt(time.Now().UnixNano(), 36) + strconv.FormatInt(counter, 36) + randomPart
}
