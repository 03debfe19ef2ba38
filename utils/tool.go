package utils

import (
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid"
)

// 批次号字符表，去掉了易混淆的小写字母
const batchAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const batchSuffixLen = 6

// GenerateBatchNo 生成配肥工单批次号，形如 WO-20260827-X7K9QZ。
// 日期段方便车间按天归档，随机段保证同一天内不撞号。
func GenerateBatchNo() string {
	suffix, err := gonanoid.Generate(batchAlphabet, batchSuffixLen)
	if err != nil {
		// 随机源异常时退化为时间戳尾数
		suffix = fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("WO-%s-%s", time.Now().Format("20060102"), suffix)
}

// ValidateBatchNo 验证批次号格式
func ValidateBatchNo(no string) bool {
	parts := strings.Split(no, "-")
	if len(parts) != 3 || parts[0] != "WO" {
		return false
	}
	if len(parts[1]) != 8 || len(parts[2]) != batchSuffixLen {
		return false
	}
	if _, err := time.Parse("20060102", parts[1]); err != nil {
		return false
	}
	for _, char := range parts[2] {
		if !strings.ContainsRune(batchAlphabet, char) {
			return false
		}
	}
	return true
}
