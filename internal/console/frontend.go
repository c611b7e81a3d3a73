package console

import "net/http"

func (s *Server) serveFrontend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(frontendHTML))
}

const frontendHTML = `<!DOCTYPE html>
<html lang="en"><head>
<meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Admin Console</title>
<style>
:root{--bg:#0b0d12;--sf:#131722;--sf2:#1b2130;--bd:#262d40;--tx:#cdd3e0;--tx2:#8a93a8;--ac:#3b82f6;--gn:#10b981;--rd:#ef4444;--or:#f59e0b}
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:ui-monospace,Menlo,monospace;background:var(--bg);color:var(--tx);min-height:100vh}
.app{max-width:1280px;margin:0 auto;padding:20px}
.hdr{display:flex;justify-content:space-between;align-items:center;padding:14px 0;border-bottom:1px solid var(--bd);margin-bottom:20px}
.hdr h1{font-size:18px}
.nav{display:flex;gap:4px;margin-bottom:20px;background:var(--sf);border-radius:8px;padding:4px;border:1px solid var(--bd)}
.nav button{font:inherit;font-size:12px;padding:8px 16px;border:none;background:0;color:var(--tx2);cursor:pointer;border-radius:6px}
.nav button.on{background:var(--ac);color:#fff}
.card{background:var(--sf);border:1px solid var(--bd);border-radius:8px;padding:16px;margin-bottom:14px}
table{width:100%;border-collapse:collapse;font-size:12px}
th,td{text-align:left;padding:8px 10px;border-bottom:1px solid var(--bd)}
th{color:var(--tx2);font-weight:500}
.pill{font-size:10px;padding:2px 8px;border-radius:10px}
.pill.pending{background:rgba(245,158,11,.15);color:var(--or)}
.pill.completed,.pill.approved{background:rgba(16,185,129,.15);color:var(--gn)}
.pill.rejected{background:rgba(239,68,68,.15);color:var(--rd)}
button.act{font:inherit;font-size:11px;padding:5px 12px;border:1px solid var(--bd);border-radius:6px;background:var(--sf2);color:var(--tx);cursor:pointer}
button.act:disabled{opacity:.4;cursor:default}
input,select{font:inherit;font-size:12px;padding:7px 10px;background:var(--sf2);border:1px solid var(--bd);border-radius:6px;color:var(--tx)}
.row{display:flex;gap:8px;align-items:center;flex-wrap:wrap;margin-bottom:12px}
.err{color:var(--rd);font-size:12px;margin:8px 0}
.stats{display:grid;grid-template-columns:repeat(auto-fit,minmax(140px,1fr));gap:10px;margin-bottom:16px}
.stat{background:var(--sf);border:1px solid var(--bd);border-radius:8px;padding:12px}
.stat b{display:block;font-size:18px;margin-top:4px}
#login{max-width:320px;margin:100px auto}
#login input{width:100%;margin-bottom:10px}
</style></head><body><div class="app">
<div class="hdr"><h1>Admin Console</h1><span id="who"></span></div>
<div id="login" class="card" style="display:none">
  <div class="row"><input id="u" placeholder="username"></div>
  <div class="row"><input id="p" type="password" placeholder="password"></div>
  <button class="act" onclick="login()">Sign in</button>
  <div class="err" id="lerr"></div>
</div>
<div id="main" style="display:none">
  <div class="nav" id="nav"></div>
  <div class="stats" id="stats"></div>
  <div class="err" id="err"></div>
  <div id="view"></div>
</div>
</div>
<script>
const TABS=["dashboard","users","deposits","withdrawals","transactions","kyc","analytics","settings"];
let tab="dashboard";
const q=s=>document.querySelector(s);
async function api(path,opts){
  const res=await fetch("/api/"+path,Object.assign({headers:{"Content-Type":"application/json"}},opts));
  const body=await res.json().catch(()=>({}));
  if(!res.ok){
    if(res.status===401){show(false);}
    throw new Error(body.error||"request failed");
  }
  return body;
}
function show(authed){
  q("#login").style.display=authed?"none":"block";
  q("#main").style.display=authed?"block":"none";
  if(authed){renderNav();load();ws();}
}
async function login(){
  q("#lerr").textContent="";
  try{
    await api("login",{method:"POST",body:JSON.stringify({username:q("#u").value,password:q("#p").value})});
    show(true);
  }catch(e){q("#lerr").textContent=e.message;}
}
function renderNav(){
  q("#nav").innerHTML=TABS.map(t=>'<button class="'+(t===tab?"on":"")+'" onclick="go(\''+t+'\')">'+t+'</button>').join("")
    +'<button style="margin-left:auto" onclick="logout()">logout</button>';
}
function go(t){tab=t;renderNav();load();}
async function logout(){await api("logout",{method:"POST"});show(false);}
function pill(s){return '<span class="pill '+s+'">'+s+'</span>';}
async function load(){
  q("#err").textContent="";q("#view").innerHTML="loading…";
  try{
    if(tab==="dashboard")await loadStats();
    else if(tab==="users")await loadUsers();
    else if(tab==="deposits"||tab==="withdrawals")await loadFunding(tab);
    else if(tab==="transactions")await loadTxs();
    else if(tab==="kyc")await loadKYC();
    else if(tab==="analytics")await loadAnalytics();
    else if(tab==="settings")await loadSettings();
  }catch(e){q("#err").textContent=e.message;q("#view").innerHTML="";}
}
async function loadStats(){
  const s=await api("stats");
  q("#stats").innerHTML=
    '<div class="stat">Users<b>'+s.totalUsers+'</b></div>'+
    '<div class="stat">Transactions<b>'+s.totalTransactions+'</b></div>'+
    '<div class="stat">Pending deposits<b>'+s.pendingDeposits+'</b></div>'+
    '<div class="stat">Pending withdrawals<b>'+s.pendingWithdrawals+'</b></div>'+
    '<div class="stat">Volume<b>'+s.totalVolume+'</b></div>';
  q("#view").innerHTML="";
}
async function loadUsers(){
  const search=q("#search")?q("#search").value:"";
  const d=await api("users?search="+encodeURIComponent(search));
  q("#view").innerHTML='<div class="card"><div class="row">'+
    '<input id="search" placeholder="name, email or id" value="'+search+'">'+
    '<button class="act" onclick="load()">Search</button></div>'+
    '<table><tr><th>Name</th><th>Email</th><th>INR</th><th>USDT</th><th>KYC</th></tr>'+
    d.users.map(u=>'<tr><td>'+u.name+'</td><td>'+u.email+'</td><td>'+u.wallets.inr+'</td><td>'+u.wallets.usdt+'</td><td>'+pill(u.kycStatus||"none")+'</td></tr>').join("")+
    '</table>'+(d.hasMore?'<button class="act" onclick="more(\'users\')">Load more</button>':"")+'</div>';
}
async function loadFunding(kind){
  const d=await api(kind);
  q("#view").innerHTML='<div class="card"><div class="row">Pending: '+d.pending+'</div>'+
    '<table><tr><th>User</th><th>Amount</th><th>Currency</th><th>Status</th><th></th></tr>'+
    d.requests.map(r=>'<tr><td>'+r.user.name+'</td><td>'+r.amount+'</td><td>'+r.currency+'</td><td>'+pill(r.status)+'</td><td>'+
      (r.status==="pending"?'<button class="act" onclick="resolve(\''+kind+'\',\''+r.id+'\',\'completed\')">Approve</button> '+
       '<button class="act" onclick="resolve(\''+kind+'\',\''+r.id+'\',\'rejected\')">Reject</button>':"")+'</td></tr>').join("")+
    '</table>'+(d.hasMore?'<button class="act" onclick="more(\''+kind+'\')">Load more</button>':"")+'</div>';
}
async function resolve(kind,id,status){
  const notes=prompt(status==="rejected"?"Reason for rejection":"Notes (optional)")||"";
  try{await api(kind+"/"+id,{method:"PUT",body:JSON.stringify({status:status,adminNotes:notes})});load();}
  catch(e){q("#err").textContent=e.message;}
}
async function more(kind){
  try{await api(kind+"?action=more");load();}catch(e){q("#err").textContent=e.message;}
}
async function loadTxs(){
  const d=await api("transactions");
  q("#view").innerHTML='<div class="card"><div class="row">Count: '+d.summary.count+
    ' · Volume: '+d.summary.volume+' · Buys: '+d.summary.buys+' · Sells: '+d.summary.sells+'</div>'+
    '<table><tr><th>User</th><th>Type</th><th>Amount</th><th>Price</th><th>Total</th></tr>'+
    d.transactions.map(t=>'<tr><td>'+t.user.name+'</td><td>'+t.type+'</td><td>'+t.amount+'</td><td>'+t.price+'</td><td>'+t.total+'</td></tr>').join("")+
    '</table>'+(d.hasMore?'<button class="act" onclick="more(\'transactions\')">Load more</button>':"")+'</div>';
}
async function loadKYC(){
  const d=await api("kyc");
  q("#view").innerHTML='<div class="card"><div class="row">Pending: '+d.pending+'</div>'+
    '<table><tr><th>Name</th><th>PAN</th><th>City</th><th>Status</th><th></th></tr>'+
    d.records.map(r=>'<tr><td>'+r.user.name+'</td><td>'+r.pan+'</td><td>'+r.city+'</td><td>'+pill(r.status)+'</td><td>'+
      (r.status==="pending"?'<button class="act" onclick="review(\''+r.id+'\',\'approved\')">Approve</button> '+
       '<button class="act" onclick="review(\''+r.id+'\',\'rejected\')">Reject</button>':"")+'</td></tr>').join("")+
    '</table></div>';
}
async function review(id,status){
  const notes=prompt(status==="rejected"?"Reason for rejection":"Notes (optional)")||"";
  try{await api("kyc/"+id,{method:"PUT",body:JSON.stringify({status:status,adminNotes:notes})});load();}
  catch(e){q("#err").textContent=e.message;}
}
async function loadAnalytics(){
  const d=await api("analytics");
  const a=d.local;
  q("#view").innerHTML='<div class="card"><div class="row">Volume: '+a.totalVolume+' · Profit: '+a.profit+
    ' · Buys: '+a.buyCount+' · Sells: '+a.sellCount+'</div>'+
    '<table><tr><th>Region</th><th>Users</th><th>Est. volume</th></tr>'+
    a.regions.map(r=>'<tr><td>'+r.region+'</td><td>'+r.users+'</td><td>'+r.volume+'</td></tr>').join("")+'</table>'+
    '<table style="margin-top:12px"><tr><th>Day</th><th>Tx</th><th>Volume</th></tr>'+
    a.trend.map(d=>'<tr><td>'+d.date.slice(0,10)+'</td><td>'+d.transactions+'</td><td>'+d.volume+'</td></tr>').join("")+'</table></div>';
}
async function loadSettings(){
  const s=await api("settings");
  const f=(k,v)=>'<div class="row"><input id="st_'+k+'" value="'+v+'" style="width:280px"> <span style="color:var(--tx2)">'+k+'</span></div>';
  q("#view").innerHTML='<div class="card">'+
    f("buyPrice",s.buyPrice)+f("sellPrice",s.sellPrice)+f("upiId",s.upiId)+
    f("bankAccount",s.bankAccount)+f("bankIFSC",s.bankIFSC)+f("bankName",s.bankName)+f("usdtAddress",s.usdtAddress)+
    '<button class="act" onclick="saveSettings()">Save</button></div>';
}
async function saveSettings(){
  const v=k=>q("#st_"+k).value;
  try{
    await api("settings",{method:"PUT",body:JSON.stringify({
      buyPrice:v("buyPrice"),sellPrice:v("sellPrice"),upiId:v("upiId"),
      bankAccount:v("bankAccount"),bankIFSC:v("bankIFSC"),bankName:v("bankName"),usdtAddress:v("usdtAddress")})});
    q("#err").textContent="saved";
  }catch(e){q("#err").textContent=e.message;}
}
function ws(){
  try{
    const sock=new WebSocket("ws://"+location.host+"/ws");
    sock.onmessage=ev=>{if(tab==="dashboard"){const s=JSON.parse(ev.data);if(s.totalUsers!==undefined)loadStats();}};
  }catch(e){}
}
api("session").then(s=>show(s.authenticated)).catch(()=>show(false));
</script></body></html>`
