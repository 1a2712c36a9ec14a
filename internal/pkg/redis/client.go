// internal/pkg/redis/client.go
package redis

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client 封装了 go-redis 的 UniversalClient，单节点和集群地址格式一致。
type Client struct {
	rdb goredis.UniversalClient
}

// NewClient 连接 Redis 并做一次 ping 校验。
// addrs 格式为 "host1:port1,host2:port2"。
func NewClient(addrs string) (*Client, error) {
	rdb := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs: strings.Split(addrs, ","),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

// GetClient 暴露底层客户端给适配器使用。
func (c *Client) GetClient() goredis.UniversalClient {
	return c.rdb
}

// Close 关闭底层连接池。
func (c *Client) Close() error {
	return c.rdb.Close()
}
