package usecase

import "time"

// テストで差し替えるための時計。
var timeNow = time.Now
