package utils

import "time"

// SessionTimeLayout matches the timestamps the browser client renders.
const SessionTimeLayout = "2006-01-02 15:04:05"

func NowSessionTimestamp() string { return time.Now().Format(SessionTimeLayout) }
