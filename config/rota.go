package config

type Rota struct {
	// 分組排班快取存活秒數（0 = 不快取）
	CacheTTLSeconds int64 `mapstructure:"CACHE_TTL_SECONDS" json:"cache_ttl_seconds" yaml:"cache_ttl_seconds"`
	// 每日掃描過期班次的 cron 表達式（含秒欄位）
	MissedSweepSpec string `mapstructure:"MISSED_SWEEP_SPEC" json:"missed_sweep_spec" yaml:"missed_sweep_spec"`
}
