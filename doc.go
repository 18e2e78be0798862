/*
Package autocron lets a program register itself as a recurring cron job. A
Registrar derives a stable identifier for the job, finds or creates the
matching crontab entry, and persists the crontab straight away, so running
the same registration on every invocation is idempotent.

	job, err := autocron.Register(ctx, "nightly-export", os.Args[0], "15 3 * * *", export)
	if err != nil {
		log.Fatal(err)
	}
	if err := job.Run(ctx); err != nil {
		log.Fatal(err)
	}

Crontab parsing and storage live in the crontab subpackage.
*/
package autocron
