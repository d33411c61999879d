package scoring

import (
	"math/rand"
	"sync"
	"time"
)

// Emotions 面试"情绪分布"，以百分比描述。
//
// 这是合成的装饰性数据：真实系统应由计算机视觉模型产出，这里用固定
// 区间内的随机值占位。它只用于展示，绝不允许流入 overall/final 评分，
// 这样以后可以直接替换为真实模型而不动聚合器契约。
type Emotions struct {
	Neutral   int `json:"neutral"`
	Happy     int `json:"happy"`
	Nervous   int `json:"nervous"`
	Confident int `json:"confident"`
}

var (
	emotionRnd   = rand.New(rand.NewSource(time.Now().UnixNano()))
	emotionMutex sync.Mutex
)

// SynthesizeEmotions 在固定区间内生成一份情绪分布：
// neutral 40–70、happy 20–50、nervous 10–30、confident 20–40。
func SynthesizeEmotions() Emotions {
	emotionMutex.Lock()
	defer emotionMutex.Unlock()
	return Emotions{
		Neutral:   emotionRnd.Intn(31) + 40,
		Happy:     emotionRnd.Intn(31) + 20,
		Nervous:   emotionRnd.Intn(21) + 10,
		Confident: emotionRnd.Intn(21) + 20,
	}
}
