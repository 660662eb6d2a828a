package server

import "net/http"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

// indexHTML is a small single-page explorer over the JSON API: resolve a
// user, show their three recommendation lists, and compute shortest paths.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Talent Graph Explorer</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; background: #0f172a; color: #e5e7eb; }
    header { padding: 16px 24px; background: #020617; border-bottom: 1px solid #1f2937; }
    h1 { margin: 0; font-size: 20px; }
    main { max-width: 1100px; margin: 24px auto; padding: 0 16px 32px; }
    section { background: #020617; border-radius: 12px; padding: 16px 20px; margin-bottom: 20px; border: 1px solid #1f2937; }
    label { display: block; margin-bottom: 4px; font-size: 13px; color: #9ca3af; }
    input { width: 100%; padding: 8px 10px; border-radius: 8px; border: 1px solid #374151; background: #020617; color: #e5e7eb; box-sizing: border-box; margin-bottom: 8px; }
    button { background: #3b82f6; color: white; border: none; border-radius: 20px; padding: 8px 16px; cursor: pointer; }
    button:hover { background: #2563eb; }
    .row { display: flex; flex-wrap: wrap; gap: 16px; }
    .col { flex: 1 1 260px; }
    ul { list-style: none; padding-left: 0; margin: 8px 0 0; font-size: 14px; }
    li { padding: 4px 0; border-bottom: 1px solid #111827; }
    .badge { display: inline-block; padding: 2px 8px; border-radius: 999px; font-size: 11px; background: #111827; color: #9ca3af; margin-left: 6px; }
    .error { color: #f97316; font-size: 13px; margin-top: 4px; }
    .small { font-size: 12px; color: #6b7280; }
  </style>
</head>
<body>
  <header>
    <h1>Talent Graph Explorer</h1>
    <p class="small">Search users, browse recommendations, compute shortest paths.</p>
  </header>
  <main>
    <section>
      <h2>Recommendations</h2>
      <div class="row">
        <div class="col" style="max-width: 280px;">
          <label for="userQuery">User name or id</label>
          <input id="userQuery" type="text" placeholder="e.g. 42 or alice" />
          <button onclick="loadRecommendations()">Load</button>
          <div id="userError" class="error"></div>
          <div id="userStats" class="small" style="margin-top:8px;"></div>
        </div>
        <div class="col">
          <strong>Friends (mutual connections)</strong>
          <ul id="friendsList"></ul>
        </div>
        <div class="col">
          <strong>People you may know</strong>
          <ul id="peopleList"></ul>
        </div>
        <div class="col">
          <strong>Jobs</strong>
          <ul id="jobsList"></ul>
        </div>
      </div>
    </section>
    <section>
      <h2>Shortest path</h2>
      <div class="row">
        <div class="col">
          <label for="fromQuery">From (name or id)</label>
          <input id="fromQuery" type="text" />
        </div>
        <div class="col">
          <label for="toQuery">To (name or id)</label>
          <input id="toQuery" type="text" />
        </div>
      </div>
      <button onclick="loadShortestPath()">Compute</button>
      <div id="pathError" class="error"></div>
      <div id="pathResult" class="small"></div>
    </section>
  </main>
  <script>
    async function resolveUser(query) {
      if (/^\d+$/.test(query.trim())) {
        return { user_id: parseInt(query.trim(), 10) };
      }
      const resp = await fetch('/api/users/search?q=' + encodeURIComponent(query));
      if (!resp.ok) return null;
      const data = await resp.json();
      return data[0] || null;
    }

    function addItem(list, text, badge) {
      const li = document.createElement('li');
      li.textContent = text;
      if (badge) {
        const span = document.createElement('span');
        span.className = 'badge';
        span.textContent = badge;
        li.appendChild(span);
      }
      list.appendChild(li);
    }

    async function loadRecommendations() {
      const q = document.getElementById('userQuery').value;
      const errEl = document.getElementById('userError');
      const statsEl = document.getElementById('userStats');
      const friendsEl = document.getElementById('friendsList');
      const peopleEl = document.getElementById('peopleList');
      const jobsEl = document.getElementById('jobsList');
      errEl.textContent = statsEl.textContent = '';
      friendsEl.innerHTML = peopleEl.innerHTML = jobsEl.innerHTML = '';

      if (!q.trim()) { errEl.textContent = 'Enter a name or id.'; return; }
      const user = await resolveUser(q);
      if (!user) { errEl.textContent = 'User not found.'; return; }

      const [friendsResp, peopleResp, jobsResp] = await Promise.all([
        fetch('/api/users/' + user.user_id + '/recommendations/friends'),
        fetch('/api/users/' + user.user_id + '/suggestions/people'),
        fetch('/api/users/' + user.user_id + '/recommendations/jobs'),
      ]);

      if (friendsResp.ok) {
        const data = await friendsResp.json();
        if (data.direct_friends_count != null) {
          statsEl.textContent = 'friends: ' + data.direct_friends_count +
            ' • friends of friends: ' + data.friends_of_friends_count;
        }
        (data.friends || []).forEach(u =>
          addItem(friendsEl, u.user_id + (u.name ? ' \u2013 ' + u.name : ''), u.score + ' mutuals'));
      }
      if (peopleResp.ok) {
        const data = await peopleResp.json();
        (data.people_you_may_know || []).forEach(u =>
          addItem(peopleEl, u.user_id + (u.name ? ' \u2013 ' + u.name : ''), 'corr ' + u.score.toFixed(3)));
      }
      if (jobsResp.ok) {
        const data = await jobsResp.json();
        (data.jobs || []).forEach(j =>
          addItem(jobsEl, j.title + (j.company ? ' @ ' + j.company : ''), 'score ' + j.score.toFixed(3)));
      }
    }

    async function loadShortestPath() {
      const errEl = document.getElementById('pathError');
      const resEl = document.getElementById('pathResult');
      errEl.textContent = resEl.textContent = '';

      const fromUser = await resolveUser(document.getElementById('fromQuery').value);
      const toUser = await resolveUser(document.getElementById('toQuery').value);
      if (!fromUser || !toUser) { errEl.textContent = 'Could not resolve one or both users.'; return; }

      const resp = await fetch('/api/paths/shortest?from_user=' + fromUser.user_id + '&to_user=' + toUser.user_id);
      if (!resp.ok) { errEl.textContent = 'No path found.'; return; }
      const data = await resp.json();
      resEl.textContent = 'Path: ' + data.path.join(' → ');
    }
  </script>
</body>
</html>
`
