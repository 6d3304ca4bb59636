package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
)

type instrumentResty struct {
	tel       API
	idcounter *uint64
}

// InstrumentResty reports every request made by the client along with its
// status and duration. Request bodies are never reported since they may carry
// credentials.
func InstrumentResty(client *resty.Client, tel API) {
	var idcounter uint64
	i := instrumentResty{tel: tel, idcounter: &idcounter}

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	id        uint64
	startTime time.Time
}

func (i instrumentResty) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	start := time.Now()
	ctx := req.Context()

	id := atomic.AddUint64(i.idcounter, 1)
	ctx = context.WithValue(ctx, reqCtxKey, reqCtx{
		id:        id,
		startTime: start,
	})
	i.tel.ReportDebug(report_resty_request, id, req.Method, req.URL)

	req.SetContext(ctx)
	return nil
}

func requestInfo(ctx context.Context) (uint64, time.Duration) {
	info, ok := ctx.Value(reqCtxKey).(reqCtx)
	if !ok {
		return 0, 0
	}
	return info.id, time.Since(info.startTime)
}

func (i instrumentResty) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id, duration := requestInfo(res.Request.Context())

	finalUrl := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalUrl = res.RawResponse.Request.URL.String()
	}

	i.tel.ReportDebug(
		report_resty_response,
		id,
		duration.String(),
		res.Status(),
		finalUrl,
	)

	return nil
}

func (i instrumentResty) onError(req *resty.Request, err error) {
	id, duration := requestInfo(req.Context())

	i.tel.ReportDebug(
		report_resty_response,
		id,
		req.Method,
		req.URL,
		duration.String(),
		err,
	)
}
