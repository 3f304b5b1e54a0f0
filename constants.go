package redis

// Command names used internally by the client.
const (
	cmdAuth   = "AUTH"
	cmdSelect = "SELECT"
	cmdInfo   = "INFO"
	cmdQuit   = "QUIT"
	cmdPing   = "PING"
	cmdMSet   = "MSET"
	cmdMGet   = "MGET"
)

// statusOK is the simple-string reply of every successful state-changing
// command.
const statusOK = "OK"

// statusPong is the reply to PING.
const statusPong = "PONG"
