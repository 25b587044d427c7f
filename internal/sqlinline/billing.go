package sqlinline

// QInsertBillingEvent stores a verified webhook delivery. Svix retries reuse
// the message id, so duplicates are ignored.
const QInsertBillingEvent = `--sql 3c1e6f0a-8d47-4b5e-9a21-6f2d7c4e9b13
insert into billing_events(svix_id, event_type, payload, received_at)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), $4::timestamptz)
on conflict (svix_id) do nothing;
`

const QCountBillingEventsByType = `--sql 8a5d2b94-1f6c-4e3a-b7d0-2c9e4f1a6b58
select event_type, count(*)
from billing_events
where received_at >= $1::timestamptz
group by event_type
order by event_type;
`
