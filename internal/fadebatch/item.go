package fadebatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"fadebatch/internal/host"
	"fadebatch/internal/logging"
	"fadebatch/internal/preset"
	"fadebatch/internal/queue"
	"fadebatch/internal/services"
)

// itemRun carries the state of one file through the fade sequence so a fault
// at any step can be cleaned up.
type itemRun struct {
	driver *Driver
	effect host.Effect
	sel    preset.Selection
	path   string
	ctx    context.Context

	file     host.File
	tx       host.TransactionID
	txOpen   bool
	closed   bool
	stageNow string
}

func (r *itemRun) process(allow queue.AllowList) (outcome queue.Outcome) {
	logger := logging.WithContext(r.ctx, r.driver.logger)

	if !allow.Allows(r.path) {
		outcome = queue.SkippedWrongExtension(queue.Extension(r.path))
		logging.WarnWithContext(logger, "file skipped", "item_skipped",
			logging.String("reason", outcome.Message),
			logging.String(logging.FieldErrorHint, "remove the file from the queue or allow its extension"),
		)
		return outcome
	}

	// Host calls are detached from run cancellation so cleanup of the file in
	// flight always completes. Cancel reaches the host via CancelCurrentOperation.
	r.ctx = context.WithoutCancel(r.ctx)

	outcome, err := r.guarded(r.execute)
	if err != nil {
		r.cleanup()
		outcome = queue.HostException(err.Error())
		attrs := []logging.Attr{
			logging.Stage(r.stageNow),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the host can open and edit the file"),
		}
		if errors.Is(err, services.ErrTimeout) {
			attrs = append(attrs, logging.Alert("operation_timeout"))
		}
		logging.ErrorWithContext(logger, "host fault while fading file", "item_host_exception", attrs...)
	}
	r.driver.setActive(nil)

	switch {
	case outcome.Kind == queue.OutcomeSuccess:
		logger.Info("file faded", logging.String("outcome", string(outcome.Kind)))
	case outcome.Kind != queue.OutcomeHostException:
		logging.WarnWithContext(logger, "file not faded", "item_failed",
			logging.String("outcome", string(outcome.Kind)),
			logging.String("reason", outcome.Message),
		)
	}
	return outcome
}

// guarded converts a panic from host code into an error.
func (r *itemRun) guarded(fn func() (queue.Outcome, error)) (outcome queue.Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.driver.logger.Debug("host panic recovered",
				logging.ItemPath(r.path),
				logging.String("stack", string(debug.Stack())),
			)
			outcome = queue.Outcome{}
			err = services.Wrap(services.ErrHostFault, "fade", r.stageNow, "panic", fmt.Errorf("%v", rec))
		}
	}()
	return fn()
}

func (r *itemRun) execute() (queue.Outcome, error) {
	h := r.driver.host

	r.stageNow = "open"
	file, found, err := h.FindOpenFile(r.ctx, r.path)
	if err != nil {
		return queue.Outcome{}, services.Wrap(services.ErrHostFault, "fade", "find open file", "", err)
	}
	if !found {
		file, err = h.OpenFile(r.ctx, r.path, false, false)
		if err != nil {
			r.driver.logger.Debug("open failed", logging.ItemPath(r.path), logging.Error(err))
			return queue.OpenFailed(r.path), nil
		}
	}
	if file == nil {
		return queue.Outcome{}, errNilHandle
	}
	r.file = file
	r.driver.setActive(file)

	status, err := r.wait()
	if err != nil {
		return queue.Outcome{}, err
	}
	if status != host.StatusSuccess {
		r.stageNow = "close"
		if err := file.Close(r.ctx, false); err != nil {
			return queue.Outcome{}, services.Wrap(services.ErrHostFault, "fade", r.stageNow, "", err)
		}
		r.closed = true
		return queue.OpenFailed(r.path), nil
	}

	r.stageNow = "begin transaction"
	tx, err := file.BeginTransaction(r.ctx, UndoLabel)
	if err != nil {
		return queue.Outcome{}, services.Wrap(services.ErrHostFault, "fade", r.stageNow, "", err)
	}
	r.tx, r.txOpen = tx, true

	outcome := queue.Outcome{}
	status = host.StatusNotAvailable
	length := file.Length()
	fadeIn := file.SecondsToSamplePosition(r.sel.FadeInSeconds)
	if fadeIn > length {
		outcome = queue.FadeInTooLong(fadeIn, length)
		status = host.StatusFail
	} else {
		r.stageNow = "fade in"
		if status, err = r.apply(r.sel.FadeInPreset, host.Range{Start: 0, Length: fadeIn}); err != nil {
			return queue.Outcome{}, err
		}
		if status == host.StatusSuccess {
			fadeOut := file.SecondsToSamplePosition(r.sel.FadeOutSeconds)
			if fadeOut > length {
				outcome = queue.FadeOutTooLong(fadeOut, length)
				status = host.StatusFail
			} else {
				r.stageNow = "fade out"
				if status, err = r.apply(r.sel.FadeOutPreset, host.Range{Start: length - fadeOut, Length: fadeOut}); err != nil {
					return queue.Outcome{}, err
				}
			}
		}
	}
	if status != host.StatusSuccess && outcome.IsZero() {
		outcome = queue.EffectFailed(status.String())
	}

	r.stageNow = "end transaction"
	if err := file.EndTransaction(r.ctx, tx, status != host.StatusSuccess); err != nil {
		return queue.Outcome{}, services.Wrap(services.ErrHostFault, "fade", r.stageNow, "", err)
	}
	r.txOpen = false

	// Save runs on every path; Close decides whether the changes are kept.
	r.stageNow = "save"
	if err := file.Save(r.ctx); err != nil {
		return queue.Outcome{}, services.Wrap(services.ErrHostFault, "fade", r.stageNow, "", err)
	}
	saveStatus, err := r.wait()
	if err != nil {
		return queue.Outcome{}, err
	}
	if status == host.StatusSuccess && saveStatus != host.StatusSuccess {
		status = saveStatus
		outcome = queue.EffectFailed(status.String())
	}

	r.stageNow = "close"
	if err := file.Close(r.ctx, status == host.StatusSuccess); err != nil {
		return queue.Outcome{}, services.Wrap(services.ErrHostFault, "fade", r.stageNow, "", err)
	}
	r.closed = true

	if status == host.StatusSuccess {
		return queue.Succeeded(), nil
	}
	return outcome, nil
}

func (r *itemRun) apply(presetName string, span host.Range) (host.Status, error) {
	if err := r.file.ApplyEffect(r.ctx, r.effect, presetName, span, host.EffectOnly); err != nil {
		return host.StatusFail, services.Wrap(services.ErrHostFault, "fade", r.stageNow, presetName, err)
	}
	return r.wait()
}

// wait blocks until the host finishes the pending operation, bounded by the
// driver's operation timeout.
func (r *itemRun) wait() (host.Status, error) {
	ctx := r.ctx
	timeout := r.driver.opts.OperationTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	status, err := r.file.Wait(ctx)
	if err == nil {
		return status, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		r.file.CancelCurrentOperation()
		return status, services.Wrap(services.ErrTimeout, "fade", r.stageNow, fmt.Sprintf("no answer from host after %s", timeout), err)
	}
	return status, services.Wrap(services.ErrHostFault, "fade", r.stageNow, "wait", err)
}

// cleanup rolls back and closes whatever the failed sequence left open. Each
// step is attempted even when an earlier one fails.
func (r *itemRun) cleanup() {
	if r.file == nil {
		return
	}
	logger := r.driver.logger
	if r.txOpen {
		if _, err := r.guarded(func() (queue.Outcome, error) {
			return queue.Outcome{}, r.file.EndTransaction(r.ctx, r.tx, true)
		}); err != nil {
			logger.Debug("rollback after host fault failed", logging.ItemPath(r.path), logging.Error(err))
		}
		r.txOpen = false
	}
	if !r.closed {
		if _, err := r.guarded(func() (queue.Outcome, error) {
			return queue.Outcome{}, r.file.Close(r.ctx, false)
		}); err != nil {
			logger.Debug("close after host fault failed", logging.ItemPath(r.path), logging.Error(err))
		}
		r.closed = true
	}
}
