// transport.go — *agent.Client 到 Transport 接口的适配。
package session

import (
	"context"

	"github.com/multi-agent/agent-console/internal/agent"
)

// ClientTransport 包装 *agent.Client 使其满足 Transport。
// RunSync / Steer / GetSession 直接提升, OpenStream 收窄为接口返回。
type ClientTransport struct {
	*agent.Client
}

func (t ClientTransport) OpenStream(ctx context.Context, req agent.RunRequest) (EventStream, error) {
	return t.Client.OpenStream(ctx, req)
}
