package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libreassistant/poc/internal/poc/protocol"
	"github.com/libreassistant/poc/internal/poc/store"
	"github.com/libreassistant/poc/internal/poc/supervisor"
	"github.com/libreassistant/poc/pkg/core"
	"github.com/libreassistant/poc/pkg/errorx"
)

func toStatusResponse(id, name string, st supervisor.Status) PluginStatusResponse {
	resp := PluginStatusResponse{
		ID:           id,
		Name:         name,
		State:        string(st.State),
		Port:         st.Port,
		UptimeMS:     st.Uptime.Milliseconds(),
		RestartCount: st.RestartCount,
	}
	if st.LastError != nil {
		resp.LastError = st.LastError.Error()
	}
	return resp
}

func (s *Server) listPlugins(c *gin.Context) {
	descriptors := s.registry.List()
	out := make([]PluginStatusResponse, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, toStatusResponse(d.ID, d.Name, s.supervisor.Status(d.ID)))
	}
	core.WriteResponse(c, nil, out)
}

func (s *Server) pluginStatus(c *gin.Context) {
	id := c.Param("id")
	d, ok := s.registry.Get(id)
	if !ok {
		core.WriteResponse(c, errorx.WithCode(ErrUnknownPlugin, "plugin %q", id), nil)
		return
	}
	core.WriteResponse(c, nil, toStatusResponse(d.ID, d.Name, s.supervisor.Status(id)))
}

func (s *Server) startPlugin(c *gin.Context) {
	id := c.Param("id")
	var req StartPluginRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			core.WriteResponse(c, errorx.WrapC(err, ErrBind, "start plugin request"), nil)
			return
		}
	}

	ctx, cancel := startContext()
	defer cancel()

	port, err := s.supervisor.Start(ctx, id, req.Options)
	if err != nil {
		core.WriteResponse(c, classifyStartErr(id, err), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "port": port, "state": string(supervisor.StateRunning)})
}

func (s *Server) stopPlugin(c *gin.Context) {
	id := c.Param("id")
	ctx, cancel := startContext()
	defer cancel()

	if err := s.supervisor.Stop(ctx, id); err != nil {
		core.WriteResponse(c, classifyStartErr(id, err), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "state": string(supervisor.StateStopped)})
}

func (s *Server) clearPlugin(c *gin.Context) {
	id := c.Param("id")
	if err := s.supervisor.Clear(id); err != nil {
		core.WriteResponse(c, classifyStartErr(id, err), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "state": string(supervisor.StateStopped)})
}

func classifyStartErr(id string, err error) error {
	switch err.(type) {
	case *supervisor.PortInUseError:
		return errorx.WrapC(err, ErrPortInUse, "plugin %q", id)
	case *supervisor.PreconditionError:
		return errorx.WrapC(err, ErrPreconditioned, "plugin %q", id)
	}
	if err == supervisor.ErrPermissionDenied {
		return errorx.WrapC(err, ErrPermission, "plugin %q", id)
	}
	return errorx.WrapC(err, ErrUnknownPlugin, "plugin %q", id)
}

func (s *Server) usageSnapshot(c *gin.Context) {
	summary := s.tracker.GetSessionSummary()
	core.WriteResponse(c, nil, UsageSnapshotResponse{
		SessionCount:        summary.SessionCount,
		InvocationsByPlugin: summary.InvocationsByPlugin,
		SuccessRateByPlugin: summary.SuccessRateByPlugin,
		MostUsedPlugin:      summary.MostUsedPlugin,
	})
}

func (s *Server) chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "chat request"), nil)
		return
	}
	if req.Message == "" {
		core.WriteResponse(c, errorx.WithCode(ErrChatEmpty, "message is required"), nil)
		return
	}

	sessionKey := c.GetHeader("X-Session-Key")
	if sessionKey == "" {
		sessionKey = requestID()
	}

	history := make([]protocol.Turn, 0, len(req.History)+1)
	for _, t := range req.History {
		history = append(history, protocol.Turn{Role: t.Role, Content: t.Content})
	}
	history = append(history, protocol.Turn{Role: "user", Content: req.Message})

	ctx := c.Request.Context()
	resp, err := s.dispatcher.Dispatch(ctx, requestID(), history)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "dispatch"), nil)
		return
	}

	if s.history != nil {
		_ = s.history.AppendTurn(ctx, sessionKey, store.HistoryTurn{Role: "user", Content: req.Message})
		if resp.Text != "" {
			_ = s.history.AppendTurn(ctx, sessionKey, store.HistoryTurn{Role: "assistant", Content: resp.Text})
		}
	}

	core.WriteResponse(c, nil, ChatResponse{
		Text:        resp.Text,
		Markdown:    resp.Markdown,
		Outcome:     string(resp.Outcome),
		Invocations: resp.Invocations,
	})
}
