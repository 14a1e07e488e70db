package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanIdentityMiddleware TraceSpanName = "identity_middleware"
	SpanCompressMiddleware TraceSpanName = "compress_middleware"
	SpanMissedSweepJob     TraceSpanName = "missed_sweep_job"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal       MetricName = "requests_total"
	MetricHttpRequestDuration     MetricName = "request_duration_seconds"
	MetricAssignmentsCreatedTotal MetricName = "assignments_created_total"
	MetricConflictsDetectedTotal  MetricName = "conflicts_detected_total"
	MetricSwapDecisionsTotal      MetricName = "swap_decisions_total"
	MetricCacheHitTotal           MetricName = "rota_cache_hit_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelSource   MetricLabelName = "source"   // single / team
	MetricLabelDecision MetricLabelName = "decision" // approved / rejected
	MetricLabelOutcome  MetricLabelName = "outcome"  // hit / miss
)

type TraceHttpServerMeta struct {
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
	UrlPath           string `trace:"url.path"`
	UrlScheme         string `trace:"url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanTraceID       string `trace:"span.trace_id"`
}

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.duration_ms"`
	Data       string  `trace:"response.data"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"duration_ms"`
	Message    string  `trace:"panic.message"`
	Stack      string  `trace:"panic.stack"`
	Status     int     `trace:"http.status"`
}

// 衝突檢查：employee / 日期窗 / 命中的筆數
type TraceConflictCheckMeta struct {
	EmployeeID    string `trace:"rota.employee_id"`
	Date          string `trace:"rota.date"`
	StartTime     string `trace:"rota.start_time"`
	EndTime       string `trace:"rota.end_time"`
	ExcludeID     string `trace:"rota.exclude_id,omitempty"`
	Candidates    int    `trace:"rota.candidate_rows"`
	ConflictCount int    `trace:"rota.conflict_count"`
}

// 團隊批次指派結果
type TraceTeamAssignMeta struct {
	TeamID       string `trace:"rota.team_id"`
	RosterSize   int    `trace:"rota.roster_size"`
	SuccessCount int    `trace:"rota.success_count"`
	FailureCount int    `trace:"rota.failure_count"`
}

// 換班流程
type TraceSwapMeta struct {
	AssignmentID string `trace:"swap.assignment_id"`
	RequestedBy  string `trace:"swap.requested_by,omitempty"`
	RequestedPal string `trace:"swap.requested_with,omitempty"`
	Decision     string `trace:"swap.decision,omitempty"`
	ReviewedBy   string `trace:"swap.reviewed_by,omitempty"`
}

// 分組查詢
type TraceRotaListMeta struct {
	From        string         `trace:"list.from,omitempty"`
	To          string         `trace:"list.to,omitempty"`
	EmployeeID  string         `trace:"list.employee_id,omitempty"`
	Bucket      string         `trace:"list.bucket,omitempty"`
	Filter      map[string]any `trace:"filter,omitempty"`
	RowCount    int            `trace:"result.rows,omitempty"`
	GroupCount  int            `trace:"result.groups,omitempty"`
	CacheResult string         `trace:"cache.outcome,omitempty"`
}

// 分組快取操作
type TraceRotaCacheMeta struct {
	Op      string `trace:"cache.op"` // get / set / bump
	Key     string `trace:"cache.key,omitempty"`
	Version int64  `trace:"cache.version,omitempty"`
	Hit     bool   `trace:"cache.hit,omitempty"`
	TTLSec  int64  `trace:"cache.ttl_sec,omitempty"`
}
