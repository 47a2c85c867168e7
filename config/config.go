package config

import (
	"math"
	"time"
)

// ThrownConfig contains flight and collision tuning for thrown items
type ThrownConfig struct {
	// Trajectory
	GravityDamper      float64 `env:"GRAVITY_DAMPER" json:"gravityDamper"`
	MaxPitchDegrees    float64 `env:"MAX_PITCH_DEGREES" json:"maxPitchDegrees"`
	RotationDegrees    float64 `env:"ROTATION_DEGREES" json:"rotationDegrees"` // yaw rotation applied to the flat throw direction
	OriginRight        float64 `env:"ORIGIN_RIGHT" json:"originRight"`
	OriginUp           float64 `env:"ORIGIN_UP" json:"originUp"`
	OriginForward      float64 `env:"ORIGIN_FORWARD" json:"originForward"`
	DefaultThrowSpeed  float64 `env:"DEFAULT_THROW_SPEED" json:"defaultThrowSpeed"`
	CatchGraceTicks    int     `env:"CATCH_GRACE_TICKS" json:"catchGraceTicks"`
	HitRadius          float64 `env:"HIT_RADIUS" json:"hitRadius"`
	GroundLookahead    float64 `env:"GROUND_LOOKAHEAD" json:"groundLookahead"` // fraction of the last step probed past the current position
	GroundBackoffStep  float64 `env:"GROUND_BACKOFF_STEP" json:"groundBackoffStep"`
	GroundBackoffLimit int     `env:"GROUND_BACKOFF_LIMIT" json:"groundBackoffLimit"`

	// Timing (ticks)
	SpawnRetryTicks       int `env:"SPAWN_RETRY_TICKS" json:"spawnRetryTicks"`
	DisposalTimeout       int `env:"DISPOSAL_TIMEOUT" json:"disposalTimeout"`
	DisposalCheckInterval int `env:"DISPOSAL_CHECK_INTERVAL" json:"disposalCheckInterval"`
	PinDelay              int `env:"PIN_DELAY" json:"pinDelay"`
}

// DamageConfig contains damage dealt by thrown items
type DamageConfig struct {
	ImpaleDamage        int     `env:"IMPALE_DAMAGE" json:"impaleDamage"`
	ImpaleInvulnTicks   int     `env:"IMPALE_INVULN_TICKS" json:"impaleInvulnTicks"`
	KnockbackGrounded   float64 `env:"KNOCKBACK_GROUNDED" json:"knockbackGrounded"`
	KnockbackAirborne   float64 `env:"KNOCKBACK_AIRBORNE" json:"knockbackAirborne"`
	OtherDamage         int     `env:"OTHER_DAMAGE" json:"otherDamage"`
	OtherInvulnTicks    int     `env:"OTHER_INVULN_TICKS" json:"otherInvulnTicks"`
	OtherKnockbackScale float64 `env:"OTHER_KNOCKBACK_SCALE" json:"otherKnockbackScale"`
}

// ImpalementConfig contains pinning behaviour for impaling items
type ImpalementConfig struct {
	PinProbeScale    float64 `env:"PIN_PROBE_SCALE" json:"pinProbeScale"` // multiple of flight velocity probed behind the target
	PinCheckInterval int     `env:"PIN_CHECK_INTERVAL" json:"pinCheckInterval"`
	PinMaxIterations int     `env:"PIN_MAX_ITERATIONS" json:"pinMaxIterations"`
}

// BladeConfig contains companion blade tuning
type BladeConfig struct {
	InputTimeout time.Duration `env:"INPUT_TIMEOUT" json:"inputTimeout"`

	// Waiting thresholds
	ReturnDistance   float64 `env:"RETURN_DISTANCE" json:"returnDistance"`
	IdleTimeoutTicks int     `env:"IDLE_TIMEOUT_TICKS" json:"idleTimeoutTicks"`

	// Lunge
	LungeCutoff     float64 `env:"LUNGE_CUTOFF" json:"lungeCutoff"`
	LungeIterations float64 `env:"LUNGE_ITERATIONS" json:"lungeIterations"` // ticks the cutoff is spread across
	LungeSpeed      float64 `env:"LUNGE_SPEED" json:"lungeSpeed"`
	LungeRange      float64 `env:"LUNGE_RANGE" json:"lungeRange"`

	// Return and recall
	RecallDelay     int     `env:"RECALL_DELAY" json:"recallDelay"`
	RecallPullback  float64 `env:"RECALL_PULLBACK" json:"recallPullback"`
	RecallYank      float64 `env:"RECALL_YANK" json:"recallYank"`
	ReturnSeconds   float32 `env:"RETURN_SECONDS" json:"returnSeconds"`
	SettleTicks     int     `env:"SETTLE_TICKS" json:"settleTicks"`
	StationaryEps   float64 `env:"STATIONARY_EPS" json:"stationaryEps"`
	StationaryTicks int     `env:"STATIONARY_TICKS" json:"stationaryTicks"`
	ArriveDistance  float64 `env:"ARRIVE_DISTANCE" json:"arriveDistance"`

	// Standby hover
	HoverBack  float64 `env:"HOVER_BACK" json:"hoverBack"`
	HoverUp    float64 `env:"HOVER_UP" json:"hoverUp"`
	HoverRight float64 `env:"HOVER_RIGHT" json:"hoverRight"`
	BobAmp     float64 `env:"BOB_AMP" json:"bobAmp"`
	BobStep    float64 `env:"BOB_STEP" json:"bobStep"`
	SheathUp   float64 `env:"SHEATH_UP" json:"sheathUp"`
	SheathBack float64 `env:"SHEATH_BACK" json:"sheathBack"`

	// Attacks
	AttackRange       float64 `env:"ATTACK_RANGE" json:"attackRange"`
	QuickDamage       int     `env:"QUICK_DAMAGE" json:"quickDamage"`
	HeavyDamage       int     `env:"HEAVY_DAMAGE" json:"heavyDamage"`
	QuickWindup       int     `env:"QUICK_WINDUP" json:"quickWindup"`
	HeavyWindup       int     `env:"HEAVY_WINDUP" json:"heavyWindup"`
	AttackKnockback   float64 `env:"ATTACK_KNOCKBACK" json:"attackKnockback"`
	AttackInvulnTicks int     `env:"ATTACK_INVULN_TICKS" json:"attackInvulnTicks"`
}

// WorldConfig contains simulated world limits
type WorldConfig struct {
	MaxProxies   int     `env:"MAX_PROXIES" json:"maxProxies"`
	Friction     float64 `env:"FRICTION" json:"friction"`
	Gravity      float64 `env:"GRAVITY" json:"gravity"`
	CellSize     int     `env:"CELL_SIZE" json:"cellSize"`
	ArenaSize    int     `env:"ARENA_SIZE" json:"arenaSize"`
	ActorWidth   float64 `env:"ACTOR_WIDTH" json:"actorWidth"`
	ActorHeight  float64 `env:"ACTOR_HEIGHT" json:"actorHeight"`
	EyeHeight    float64 `env:"EYE_HEIGHT" json:"eyeHeight"`
	ActorHealth  int     `env:"ACTOR_HEALTH" json:"actorHealth"`
	ProxyExtents float64 `env:"PROXY_EXTENTS" json:"proxyExtents"`
	Reach        float64 `env:"REACH" json:"reach"` // grab distance from the eye
}

// ServerConfig contains host loop and transport settings
type ServerConfig struct {
	Port       uint   `env:"PORT" json:"port"`
	TickRate   int    `env:"TICK_RATE" json:"tickRate"`
	Arena      string `env:"ARENA" json:"arena"`
	AppName    string `env:"APP_NAME" json:"appName"`
	Name       string `env:"NAME" json:"name"`
	Version    string `env:"VERSION" json:"version"` // required client version, empty accepts any
	MaxPlayers int    `env:"MAX_PLAYERS" json:"maxPlayers"`
}

// Config is the full set of tunables read by the simulation.
// It is treated as read-only once the loop starts.
type Config struct {
	Thrown     ThrownConfig     `envPrefix:"THROWN_" json:"thrown"`
	Damage     DamageConfig     `envPrefix:"DAMAGE_" json:"damage"`
	Impalement ImpalementConfig `envPrefix:"IMPALEMENT_" json:"impalement"`
	Blade      BladeConfig      `envPrefix:"BLADE_" json:"blade"`
	World      WorldConfig      `envPrefix:"WORLD_" json:"world"`
	Server     ServerConfig     `envPrefix:"SERVER_" json:"server"`
}

// Default returns a fresh copy of the built-in tunables
func Default() *Config {
	return &Config{
		Thrown: ThrownConfig{
			GravityDamper:      46,
			MaxPitchDegrees:    89,
			RotationDegrees:    0,
			OriginRight:        0.3,
			OriginUp:           -0.2,
			OriginForward:      0.5,
			DefaultThrowSpeed:  3,
			CatchGraceTicks:    10,
			HitRadius:          0.5,
			GroundLookahead:    0.2,
			GroundBackoffStep:  0.1,
			GroundBackoffLimit: 30,

			SpawnRetryTicks:       5,
			DisposalTimeout:       200,
			DisposalCheckInterval: 5,
			PinDelay:              2,
		},
		Damage: DamageConfig{
			ImpaleDamage:        6,
			ImpaleInvulnTicks:   0,
			KnockbackGrounded:   0.7,
			KnockbackAirborne:   0.4,
			OtherDamage:         3,
			OtherInvulnTicks:    0,
			OtherKnockbackScale: 0.5,
		},
		Impalement: ImpalementConfig{
			PinProbeScale:    1.5,
			PinCheckInterval: 2,
			PinMaxIterations: 50,
		},
		Blade: BladeConfig{
			InputTimeout: 70 * time.Millisecond,

			ReturnDistance:   20,
			IdleTimeoutTicks: 600,

			LungeCutoff:     1.2,
			LungeIterations: 9,
			LungeSpeed:      3,
			LungeRange:      20,

			RecallDelay:     10,
			RecallPullback:  6,
			RecallYank:      0.75,
			ReturnSeconds:   0.5,
			SettleTicks:     15,
			StationaryEps:   0.02,
			StationaryTicks: 3,
			ArriveDistance:  0.5,

			HoverBack:  1.0,
			HoverUp:    1.2,
			HoverRight: 0.8,
			BobAmp:     0.25,
			BobStep:    math.Pi / 8,
			SheathUp:   0.9,
			SheathBack: 0.3,

			AttackRange:       6,
			QuickDamage:       4,
			HeavyDamage:       9,
			QuickWindup:       4,
			HeavyWindup:       12,
			AttackKnockback:   0.6,
			AttackInvulnTicks: 10,
		},
		World: WorldConfig{
			MaxProxies:   256,
			Friction:     0.8,
			Gravity:      0.08,
			CellSize:     4,
			ArenaSize:    256,
			ActorWidth:   0.6,
			ActorHeight:  1.8,
			EyeHeight:    1.6,
			ActorHealth:  20,
			ProxyExtents: 0.25,
			Reach:        4,
		},
		Server: ServerConfig{
			Port:       7373,
			TickRate:   20,
			Arena:      "",
			AppName:    "shadeblade",
			Name:       "Shadeblade Server",
			Version:    "",
			MaxPlayers: 16,
		},
	}
}

// TickDuration is the wall time of one simulation tick
func (c *Config) TickDuration() time.Duration {
	if c.Server.TickRate <= 0 {
		return 50 * time.Millisecond
	}
	return time.Second / time.Duration(c.Server.TickRate)
}
