package util

// 登录标识不含 @ 时补全的邮箱域（学号登录）
const (
	StudentEmailDomain = "@student.local"
	AdminEmailDomain   = "@admin.local"
)
