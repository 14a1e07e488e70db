package core

type MongoDatabaseName string
type MongoCollection string
type RedisKey string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────
const (
	MongoDBStaffhub MongoDatabaseName = "staffhub"
)

// MongoDB collections
const (
	MongoCollectionEmployees        MongoCollection = "employees"
	MongoCollectionTeams            MongoCollection = "teams"
	MongoCollectionShiftAssignments MongoCollection = "shift_assignments"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyRotaGroupCache   RedisKey = "rota_groups"  // 分組排班查詢快取
	RedisKeyRotaCacheVersion RedisKey = "rota_version" // 寫入時遞增，作廢舊快取
	RedisKeyServerName       RedisKey = "staffhub"     // 伺服器名稱
)

const (
	FluentdRequest   FluentdSubTag = "request_log"
	FluentdResponse  FluentdSubTag = "response_log"
	FluentdRotaAudit FluentdSubTag = "rota_audit_log"
)
