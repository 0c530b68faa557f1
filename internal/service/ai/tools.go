package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino-ext/components/tool/googlesearch"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/config"
)

func initToolsChain(cfg *config.Config) []tool.BaseTool {
	var tools []tool.BaseTool
	if ws := initWebSearch(cfg); ws != nil {
		tools = append(tools, ws)
	}
	return tools
}

func initWebSearch(cfg *config.Config) tool.InvokableTool {
	googleTool := initGoogleSearch(cfg)
	duckTool := initDDGSearch()
	if googleTool == nil && duckTool == nil {
		zap.L().Info("web search tool disabled: no search providers available")
		return nil
	}

	ws := &webSearchTool{
		google:     googleTool,
		duck:       duckTool,
		httpClient: &http.Client{Timeout: webSearchHTTPTimeout},
	}

	info := &schema.ToolInfo{
		Name: "web_search",
		Desc: "Search the web for current information the college records do not cover; " +
			"automatically falls back to another provider if needed; " +
			"can fetch a URL directly.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Desc:     "Natural language query or URL to search",
				Type:     schema.String,
				Required: true,
			},
		}),
	}

	return utils.NewTool(info, ws.run)
}

type webSearchTool struct {
	google     tool.InvokableTool
	duck       tool.InvokableTool
	httpClient *http.Client
}

type webSearchParams struct {
	Query string `json:"query"`
}

var webSearchLimiter = newToolRateLimiter(webSearchRateLimit, webSearchRateWindow)

func (w *webSearchTool) run(ctx context.Context, params *webSearchParams) (string, error) {
	if params == nil {
		return "", errors.New("missing search parameters")
	}
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return "", errors.New("query must not be empty")
	}

	key := "global"
	if sessionID, ok := ToolSessionFromContext(ctx); ok {
		key = sessionID
	}
	if !webSearchLimiter.Allow(key) {
		return "", errors.New("web search rate limit exceeded, please retry in a minute")
	}

	if looksLikeURL(query) {
		if content, err := w.fetchURL(ctx, query); err == nil {
			return content, nil
		} else {
			zap.L().Warn("web url fetch failed", zap.Error(err))
		}
	}

	payloadBytes, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return "", fmt.Errorf("marshal search params: %w", err)
	}
	payload := string(payloadBytes)

	if w.google != nil {
		if result, err := w.google.InvokableRun(ctx, payload); err == nil {
			return result, nil
		} else {
			zap.L().Warn("google search failed", zap.Error(err))
		}
	}

	if w.duck != nil {
		if result, err := w.duck.InvokableRun(ctx, payload); err == nil {
			return result, nil
		} else {
			zap.L().Warn("duckduckgo search failed", zap.Error(err))
		}
	}

	return "", errors.New("no search provider succeeded")
}

func initDDGSearch() tool.InvokableTool {
	duckConfig := &duckduckgo.Config{
		ToolName:   "web_search_ddg",
		ToolDesc:   "DuckDuckGo Search Tool (no token required)",
		MaxResults: 3,
		Region:     duckduckgo.RegionWT,
		Timeout:    10 * time.Second,
	}
	duckTool, err := duckduckgo.NewTextSearchTool(context.Background(), duckConfig)
	if err != nil {
		zap.L().Warn("duckduckgo search tool disabled", zap.Error(err))
		return nil
	}
	return duckTool
}

func initGoogleSearch(cfg *config.Config) tool.InvokableTool {
	if cfg.Search.GoogleAPIKey == "" || cfg.Search.GoogleEngineID == "" {
		zap.L().Info("google search tool disabled: missing api key or engine id")
		return nil
	}
	googleTool, err := googlesearch.NewTool(context.Background(), &googlesearch.Config{
		ToolName:       "web_search_google",
		ToolDesc:       "Google Search Tool",
		APIKey:         cfg.Search.GoogleAPIKey,
		SearchEngineID: cfg.Search.GoogleEngineID,
		Lang:           "en",
		Num:            5,
	})
	if err != nil {
		zap.L().Warn("google search tool disabled", zap.Error(err))
		return nil
	}
	return googleTool
}
