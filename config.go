package main

import "time"

type Config struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT,default=3000"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	RoomName        string        `env:"ROOM_NAME,default=global"`
	SendBufferSize  int           `env:"SEND_BUFFER_SIZE,default=256"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}
