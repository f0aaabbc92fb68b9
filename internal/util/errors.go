package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrStudentNoTaken     = errors.New("该学号已被使用")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrRitualNotFound     = errors.New("ritual not found")
	ErrTimerNotFound      = errors.New("no active timer for this ritual")
	ErrTimerNotRunning    = errors.New("timer is not running")
	ErrTimerNotPaused     = errors.New("timer is not paused")
	ErrTimerAlreadyActive = errors.New("timer already started")
	ErrZeroDuration       = errors.New("nothing to save: no practice time accrued")
	ErrStatsUnavailable   = errors.New("stats unavailable")
)
