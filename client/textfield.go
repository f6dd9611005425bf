package client

import (
	"strings"
	"unicode"
)

// 输入长度上限，与服务端截断保持一致
const (
	MaxCodeLen     = 20
	MaxNameLen     = 16
	MaxRoomCodeLen = 12
)

// TextField 窗口内的单行输入框；只接受 filter 允许的字符，超过 limit 的输入被忽略
type TextField struct {
	limit  int
	upper  bool
	filter func(rune) bool
	buf    []rune
}

// NewCodeField 密码输入：字母数字，自动大写
func NewCodeField() *TextField {
	return &TextField{limit: MaxCodeLen, upper: true, filter: isAlnum}
}

// NewRoomCodeField 房间码输入：字母数字，自动大写
func NewRoomCodeField(initial string) *TextField {
	f := &TextField{limit: MaxRoomCodeLen, upper: true, filter: isAlnum}
	f.Set(initial)
	return f
}

// NewNameField 玩家名输入：任意可打印字符
func NewNameField(initial string) *TextField {
	f := &TextField{limit: MaxNameLen, filter: unicode.IsPrint}
	f.Set(initial)
	return f
}

func isAlnum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Append 追加字符；返回是否被接受
func (f *TextField) Append(r rune) bool {
	if len(f.buf) >= f.limit || !f.filter(r) {
		return false
	}
	if f.upper {
		r = unicode.ToUpper(r)
	}
	f.buf = append(f.buf, r)
	return true
}

// Backspace 删除最后一个字符
func (f *TextField) Backspace() {
	if len(f.buf) > 0 {
		f.buf = f.buf[:len(f.buf)-1]
	}
}

// Set 替换内容，逐字符走同样的过滤与上限
func (f *TextField) Set(s string) {
	f.buf = f.buf[:0]
	for _, r := range s {
		f.Append(r)
	}
}

func (f *TextField) String() string { return string(f.buf) }

// Value 提交用的值（去掉首尾空白）
func (f *TextField) Value() string { return strings.TrimSpace(string(f.buf)) }
