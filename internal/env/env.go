package env

import (
	"time"
)

//goland:noinspection GoVarAndConstTypeMayBeOmitted,GoCommentStart
var (
	Debug          bool          = false            //调试模式, 打印每一次定时器状态变化
	TimerPrecision time.Duration = time.Millisecond //默认调度器的定时器精度
	WheelSlots     int           = 1 << 10          //时间轮调度器的槽位数量, 必须是 2 的幂
)
