package database

import (
	"ashtray_server/structs"
	"time"
)

func testDatabaseConfig(host string, port int) *structs.DatabaseConfig {
	return &structs.DatabaseConfig{
		Driver:             "pgdriver",
		Host:               host,
		Port:               port,
		User:               "shop",
		Password:           "p@ss",
		Name:               "shop",
		SSLMode:            "disable",
		MaxConns:           5,
		MinConns:           1,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		SlowQueryThreshold: time.Second,
	}
}
